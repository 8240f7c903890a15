package main

import (
	"robin/internal/bugstats"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
)

// renderResults formats one bucket of every row as a terminal table
func renderResults(rows []*bugstats.Result, bucket bugstats.Bucket) string {
	withArch := lo.SomeBy(rows, func(r *bugstats.Result) bool { return r.Architecture != "" })

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Title.Format = text.FormatDefault
	tbl.SetTitle("bug status: " + string(bucket))

	header := table.Row{"Team"}
	if withArch {
		header = append(header, "Arch")
	}
	header = append(header,
		"Reported", "QA Contact", "Catch",
		"High Reported", "High QA Contact", "High Catch",
		"Fixed", "Fixed Ratio", "Invalid", "Invalid Ratio",
	)
	tbl.AppendHeader(header)

	for _, r := range rows {
		m := r.Metrics[bucket]
		if m == nil {
			m = &bugstats.Metrics{}
		}
		row := table.Row{r.Name}
		if withArch {
			row = append(row, r.Architecture)
		}
		row = append(row,
			m.ValidReported, m.ValidQAContact, m.CatchRatio.String(),
			m.HighReported, m.HighQAContact, m.HighCatchRatio.String(),
			m.Fixed, m.FixedRatio.String(), m.Invalid, m.InvalidRatio.String(),
		)
		tbl.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 0, len(header)-1)
	for i := 2; i <= len(header); i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	if withArch {
		configs[0].Align = text.AlignLeft
	}
	tbl.SetColumnConfigs(configs)

	return tbl.Render() + "\n"
}
