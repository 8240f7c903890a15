package main

import (
	"fmt"

	"robin/internal/bugzilla"
	"robin/internal/queue"
	"robin/internal/redis"
	"robin/internal/worker"

	"github.com/spf13/cobra"
)

var refreshQueue bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the Bugzilla snapshots",
	Long: `Fetch the bugs of every serving member from Bugzilla and replace both snapshots.
With --queue the refresh is handed to the worker instead.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshQueue, "queue", false, "queue refresh jobs for the worker instead of refreshing here")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := connect(ctx)
	if err != nil {
		return err
	}
	defer e.db.Close()

	if refreshQueue {
		redisClient, err := redis.NewClient(e.cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		publisher := queue.NewPublisher(redisClient, e.cfg.Redis.QueueName)
		for _, jobType := range queue.RefreshJobTypes {
			if err := publisher.PublishRefreshJob(ctx, jobType); err != nil {
				return err
			}
		}
		length, err := publisher.GetQueueLength(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "queued %d refresh jobs, %d waiting\n", len(queue.RefreshJobTypes), length)
		return nil
	}

	client := bugzilla.NewClient(e.cfg.Bugzilla, bugzilla.NewBuilder(e.cfg.Bugzilla))
	if err := worker.NewJobHandler(e.db, client, e.db, e.arches).Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "snapshots refreshed")
	return nil
}
