package pipeline

import (
	"github.com/user/drone_analyzer_go/internal/analysis"
	"github.com/user/drone_analyzer_go/internal/report"
)

// SummaryRows lists every scalar result, and the category totals of the
// situation breakdown, in group order.
func SummaryRows(table *AggregatedTable) []report.SummaryRow {
	if table == nil {
		return nil
	}
	var rows []report.SummaryRow
	for _, g := range table.Groups {
		for i, v := range g.Values {
			base := report.SummaryRow{Kind: g.Kind.String(), Metric: g.Metric, Title: g.Title, Label: g.Labels[i], File: g.Files[i]}
			switch v := v.(type) {
			case analysis.ScalarWithInterval:
				row := base
				row.Mean, row.StdDev, row.Interval, row.N = v.Mean, v.StdDev, v.Interval, v.N
				rows = append(rows, row)
			case analysis.CategoryBreakdown:
				for c, name := range v.Categories {
					row := base
					row.Title = g.Title + ": " + name
					row.Mean, row.Interval, row.N = v.Means[c], v.Intervals[c], v.Runs
					rows = append(rows, row)
				}
			case analysis.PerRunSeries, analysis.RawDistribution, analysis.PointCloud:
			}
		}
	}
	return rows
}

// PerRunRows lists every per-run value, one row per (group, label, run).
func PerRunRows(table *AggregatedTable) []report.PerRunRow {
	if table == nil {
		return nil
	}
	var rows []report.PerRunRow
	for _, g := range table.Groups {
		for i, v := range g.Values {
			series, ok := v.(analysis.PerRunSeries)
			if !ok {
				continue
			}
			for j, run := range series.Runs {
				rows = append(rows, report.PerRunRow{
					Kind:     g.Kind.String(),
					Metric:   g.Metric,
					Title:    g.Title,
					Label:    g.Labels[i],
					File:     g.Files[i],
					Run:      run,
					Value:    series.Values[j],
					Interval: series.Intervals[j],
				})
			}
		}
	}
	return rows
}
