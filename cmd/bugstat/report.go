package main

import (
	"fmt"
	"time"

	"robin/internal/bugstats"
	"robin/internal/bugzilla"
	"robin/internal/members"
	"robin/internal/validation"

	"github.com/spf13/cobra"
)

var (
	reportStart     string
	reportEnd       string
	reportTeam      string
	reportIDs       string
	reportPerMember bool
	reportMultiArch bool
	reportOrg       bool
	reportBucket    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a bug status summary",
	Long: `Print the bug status summary of a team or a list of contributors.
--org prints the organization report of the current year instead.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportStart, "start", "", "first day, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "last day, YYYY-MM-DD (inclusive)")
	reportCmd.Flags().StringVarP(&reportTeam, "team", "t", "", "team code")
	reportCmd.Flags().StringVarP(&reportIDs, "kerberos-id", "k", "", "comma separated kerberos ids")
	reportCmd.Flags().BoolVar(&reportPerMember, "per-member", false, "add one row per contributor")
	reportCmd.Flags().BoolVar(&reportMultiArch, "multi-arch", false, "report per architecture from the multi-arch snapshot")
	reportCmd.Flags().BoolVar(&reportOrg, "org", false, "report the organization and every team for the current year")
	reportCmd.Flags().StringVarP(&reportBucket, "bucket", "b", string(bugstats.BucketAll), "product bucket: all, rhel8 or rhel9")

	reportCmd.MarkFlagsMutuallyExclusive("team", "kerberos-id")
	reportCmd.MarkFlagsMutuallyExclusive("org", "team")
	reportCmd.MarkFlagsMutuallyExclusive("org", "kerberos-id")
}

func runReport(cmd *cobra.Command, args []string) error {
	bucket := bugstats.Bucket(reportBucket)

	var p bugstats.ScopeParams
	v := validation.New()
	v.OneOf("bucket", reportBucket, []string{string(bugstats.BucketAll), string(bugstats.BucketRHEL8), string(bugstats.BucketRHEL9)})
	if !reportOrg {
		v.Required("start", reportStart).Date("start", reportStart, &p.Start).
			Required("end", reportEnd).Date("end", reportEnd, &p.End).
			DateOrder("start", p.Start, "end", p.End).
			Custom("team", func() error {
				if reportTeam == "" && reportIDs == "" {
					return fmt.Errorf("one of --team or --kerberos-id is required")
				}
				return nil
			})
	}
	if err := v.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := connect(ctx)
	if err != nil {
		return err
	}
	defer e.db.Close()

	builder := bugzilla.NewBuilder(e.cfg.Bugzilla)
	agg := bugstats.NewAggregator(e.db, builder, e.arches, e.cfg.Bugzilla, e.cfg.Report)
	reporter := bugstats.NewReporter(agg, e.db, e.arches, e.cfg.Report)

	started := time.Now()
	var rows []*bugstats.Result
	switch {
	case reportOrg:
		rows, err = reporter.Organization(ctx)
	default:
		statsType, teamCode := members.Personal, ""
		if reportTeam != "" {
			statsType, teamCode = members.Team, reportTeam
		}
		p.Contributors, err = members.NewResolver(e.db).Resolve(ctx, statsType, teamCode, reportIDs)
		if err != nil {
			return err
		}
		p.TeamCode = teamCode
		p.PerMember = reportPerMember

		if reportMultiArch {
			rows, err = reporter.MultiArch(ctx, p)
		} else {
			rows, err = reporter.Scope(ctx, p)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderResults(rows, bucket))
	fmt.Fprintf(cmd.ErrOrStderr(), "%d rows in %s\n", len(rows), time.Since(started).Round(time.Millisecond))
	return nil
}
