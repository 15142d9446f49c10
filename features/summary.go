package features

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// FieldStats holds the mean and sample standard deviation of one numeric field.
type FieldStats struct {
	Mean   float64
	StdDev float64
}

// Summary describes all records sharing one label.
type Summary struct {
	Label         string
	Count         int
	Area          FieldStats
	AspectRatio   FieldStats
	PercentFilled FieldStats
	Orientation   FieldStats
}

// Summarize groups records by label and computes per-field statistics. The
// result is ordered by label. Labels with a single record report a zero
// standard deviation.
func Summarize(records []Record) []Summary {
	groups := lo.GroupBy(records, func(r Record) string { return r.Label })

	labels := lo.Keys(groups)
	sort.Strings(labels)

	out := make([]Summary, 0, len(labels))
	for _, label := range labels {
		group := groups[label]
		out = append(out, Summary{
			Label:         label,
			Count:         len(group),
			Area:          fieldStats(lo.Map(group, func(r Record, _ int) float64 { return float64(r.Area) })),
			AspectRatio:   fieldStats(lo.Map(group, func(r Record, _ int) float64 { return r.AspectRatio })),
			PercentFilled: fieldStats(lo.Map(group, func(r Record, _ int) float64 { return r.PercentFilled })),
			Orientation:   fieldStats(lo.Map(group, func(r Record, _ int) float64 { return r.Orientation })),
		})
	}
	return out
}

func fieldStats(values []float64) FieldStats {
	if len(values) < 2 {
		return FieldStats{Mean: stat.Mean(values, nil)}
	}
	mean, std := stat.MeanStdDev(values, nil)
	return FieldStats{Mean: mean, StdDev: std}
}

// RenderSummaries formats summaries as a text table.
func RenderSummaries(summaries []Summary) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Label", "Count", "Area", "Aspect Ratio", "Filled", "Orientation"})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			s.Label,
			s.Count,
			formatStats(s.Area),
			formatStats(s.AspectRatio),
			formatStats(s.PercentFilled),
			formatStats(s.Orientation),
		})
	}
	return t.Render()
}

func formatStats(f FieldStats) string {
	return fmt.Sprintf("%.3f ± %.3f", f.Mean, f.StdDev)
}
