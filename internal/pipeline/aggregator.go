package pipeline

import (
	"fmt"
	"sort"

	"github.com/user/drone_analyzer_go/internal/analysis"
	"github.com/user/drone_analyzer_go/internal/parser"
	"github.com/user/drone_analyzer_go/internal/report"
)

// Group collects every value of one (kind, metric) pair across simulations.
type Group struct {
	Kind   parser.Kind
	Metric string
	Title  string
	Labels []string
	Files  []string
	Values []analysis.Value

	entry *Entry
}

// Empty reports whether no simulation produced a value for the group.
func (g *Group) Empty() bool {
	return len(g.Values) == 0
}

// AggregatedTable is the flattened result of one analysis pass.
type AggregatedTable struct {
	Results []MetricResult
	Groups  []Group
}

// Group returns the group of a (kind, metric) pair.
func (t *AggregatedTable) Group(kind parser.Kind, metric string) (*Group, bool) {
	for i := range t.Groups {
		if t.Groups[i].Kind == kind && t.Groups[i].Metric == metric {
			return &t.Groups[i], true
		}
	}
	return nil, false
}

// hasData reports whether a value holds anything to draw. Series and point
// sets can come out of a metric with zero entries.
func hasData(v analysis.Value) bool {
	switch v := v.(type) {
	case analysis.PerRunSeries:
		return v.Len() > 0
	case analysis.RawDistribution:
		return v.Count() > 0
	case analysis.PointCloud:
		return len(v.X) > 0
	case analysis.ScalarWithInterval, analysis.CategoryBreakdown:
		return true
	}
	return v != nil
}

// Aggregate groups results by (kind, metric). Groups follow kind order then
// catalogue order and exist for every metric of each kind in present; values
// within a group follow simulation order then upload order. Values with
// nothing to draw are left out; empty groups are kept and reported.
func (c *Catalog) Aggregate(present []parser.Kind, results []MetricResult) (*AggregatedTable, []report.Notice) {
	ordered := make([]MetricResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SimIndex != ordered[j].SimIndex {
			return ordered[i].SimIndex < ordered[j].SimIndex
		}
		return ordered[i].FileIndex < ordered[j].FileIndex
	})

	isPresent := make(map[parser.Kind]bool, len(present))
	for _, k := range present {
		isPresent[k] = true
	}

	table := &AggregatedTable{Results: ordered}
	var notices []report.Notice
	for _, kind := range parser.Kinds() {
		if !isPresent[kind] {
			continue
		}
		entries := c.Entries(kind)
		for i := range entries {
			e := &entries[i]
			g := Group{Kind: kind, Metric: e.Metric, Title: e.Title, entry: e}
			for _, r := range ordered {
				if r.Kind != kind || r.Metric != e.Metric {
					continue
				}
				if !hasData(r.Value) {
					notices = append(notices, report.Notice{
						Level:   report.LevelInfo,
						File:    r.File,
						Metric:  e.Metric,
						Message: "no data available",
					})
					continue
				}
				g.Labels = append(g.Labels, r.Label())
				g.Files = append(g.Files, r.File)
				g.Values = append(g.Values, r.Value)
				if r.entry != nil {
					g.entry = r.entry
				}
			}
			if g.Empty() {
				notices = append(notices, report.Notice{
					Level:   report.LevelInfo,
					Metric:  e.Metric,
					Message: fmt.Sprintf("%s (%s): no data available", e.Title, kind),
				})
			}
			table.Groups = append(table.Groups, g)
		}
	}
	return table, notices
}

// Render draws every non-empty group once with all of its values. A failing
// plot is reported and the remaining groups are still drawn.
func Render(table *AggregatedTable) ([]*report.Figure, []report.Notice) {
	var figures []*report.Figure
	var notices []report.Notice
	for i := range table.Groups {
		g := &table.Groups[i]
		if g.Empty() || g.entry == nil {
			continue
		}
		figs, err := g.entry.Plot(g.Labels, g.Values)
		figures = append(figures, figs...)
		if err != nil {
			notices = append(notices, report.Notice{
				Level:   report.LevelError,
				Metric:  g.Metric,
				Message: fmt.Sprintf("failed to draw chart: %v", err),
			})
		}
	}
	return figures, notices
}
