// Package export renders bug summaries as spreadsheets.
package export

import (
	"bytes"
	"fmt"

	"robin/internal/bugstats"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the only sheet of the workbook
const SheetName = "Bug Status"

// ContentType is the media type of the rendered workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []string{
	"Team", "Valid Reported", "Valid QA Contact", "Catch Ratio",
	"High Reported", "High QA Contact", "High Catch Ratio",
	"Fixed", "Fixed Ratio", "Invalid", "Invalid Ratio",
}

// cell is one value column. Counts carry the link reproducing them; ratios do not.
type cell struct {
	value func(m *bugstats.Metrics) any
	link  func(l *bugstats.Links) string
}

var cells = []cell{
	{value: func(m *bugstats.Metrics) any { return m.ValidReported }, link: func(l *bugstats.Links) string { return l.ValidReported }},
	{value: func(m *bugstats.Metrics) any { return m.ValidQAContact }, link: func(l *bugstats.Links) string { return l.ValidQAContact }},
	{value: func(m *bugstats.Metrics) any { return m.CatchRatio.String() }},
	{value: func(m *bugstats.Metrics) any { return m.HighReported }, link: func(l *bugstats.Links) string { return l.HighReported }},
	{value: func(m *bugstats.Metrics) any { return m.HighQAContact }, link: func(l *bugstats.Links) string { return l.HighQAContact }},
	{value: func(m *bugstats.Metrics) any { return m.HighCatchRatio.String() }},
	{value: func(m *bugstats.Metrics) any { return m.Fixed }, link: func(l *bugstats.Links) string { return l.Fixed }},
	{value: func(m *bugstats.Metrics) any { return m.FixedRatio.String() }},
	{value: func(m *bugstats.Metrics) any { return m.Invalid }, link: func(l *bugstats.Links) string { return l.Invalid }},
	{value: func(m *bugstats.Metrics) any { return m.InvalidRatio.String() }},
}

// block is one labeled group of rows, all rendered from the same bucket
type block struct {
	label  string
	bucket bugstats.Bucket
}

var blocks = []block{
	{bucket: bugstats.BucketAll},
	{label: "RHEL 8", bucket: bugstats.BucketRHEL8},
	{label: "RHEL 9", bucket: bugstats.BucketRHEL9},
}

type writer struct {
	f         *excelize.File
	linkStyle int
	withArch  bool
	row       int
}

// Workbook renders rows as an xlsx document: the header, the all block, then a labeled block
// per product line with a blank row before each label.
func Workbook(rows []*bugstats.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "1265BE", Underline: "single"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create link style: %w", err)
	}

	w := &writer{
		f:         f,
		linkStyle: linkStyle,
		withArch:  lo.SomeBy(rows, func(r *bugstats.Result) bool { return r.Architecture != "" }),
		row:       1,
	}

	if err := w.header(); err != nil {
		return nil, err
	}
	for i, b := range blocks {
		if i > 0 {
			// blank separator, then the label
			w.row++
			if err := w.set(1, b.label); err != nil {
				return nil, err
			}
			w.row++
		}
		for _, r := range rows {
			if err := w.result(r, b.bucket); err != nil {
				return nil, err
			}
			w.row++
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *writer) header() error {
	labels := header
	if w.withArch {
		labels = append([]string{header[0], "Architecture"}, header[1:]...)
	}
	for i, label := range labels {
		if err := w.set(i+1, label); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *writer) result(r *bugstats.Result, bucket bugstats.Bucket) error {
	if err := w.set(1, r.Name); err != nil {
		return err
	}
	col := 2
	if w.withArch {
		if err := w.set(col, r.Architecture); err != nil {
			return err
		}
		col++
	}

	metrics := r.Metrics[bucket]
	links := r.Links[bucket]
	if metrics == nil {
		metrics = &bugstats.Metrics{}
	}
	if links == nil {
		links = &bugstats.Links{}
	}

	for i, c := range cells {
		if err := w.set(col+i, c.value(metrics)); err != nil {
			return err
		}
		if c.link == nil {
			continue
		}
		if err := w.link(col+i, c.link(links)); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) set(col int, value any) error {
	name, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetCellValue(SheetName, name, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", name, err)
	}
	return nil
}

func (w *writer) link(col int, url string) error {
	if url == "" {
		return nil
	}
	name, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetCellHyperLink(SheetName, name, url, "External"); err != nil {
		return fmt.Errorf("failed to link %s: %w", name, err)
	}
	return w.f.SetCellStyle(SheetName, name, name, w.linkStyle)
}
