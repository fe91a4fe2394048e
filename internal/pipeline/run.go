package pipeline

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/user/drone_analyzer_go/internal/parser"
	"github.com/user/drone_analyzer_go/internal/report"
)

// Outcome is everything one analysis pass hands to a front end.
type Outcome struct {
	ID      uuid.UUID
	Mode    Mode
	Table   *AggregatedTable
	Figures []*report.Figure
	Notices []report.Notice
}

// Summary flattens the scalar results for report tables.
func (o *Outcome) Summary() []report.SummaryRow {
	return SummaryRows(o.Table)
}

func (o *Outcome) PerRun() []report.PerRunRow {
	return PerRunRows(o.Table)
}

// Run validates the request, processes every upload in order, aggregates the
// results and draws one chart per group. Cancellation is checked between
// files; a cancelled pass returns no outcome.
func (c *Catalog) Run(ctx context.Context, req Request) (*Outcome, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	out := &Outcome{ID: req.ID, Mode: req.Mode}
	var results []MetricResult
	var present []parser.Kind
	seen := make(map[parser.Kind]bool)

	for si, sim := range req.Simulations {
		if req.Mode == ModeSimple {
			sim.Name = ""
		}
		for fi, upload := range sim.Files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rs, notices := c.ProcessFile(sim, upload)
			out.Notices = append(out.Notices, notices...)
			for i := range rs {
				rs[i].SimIndex = si
				rs[i].FileIndex = fi
			}
			results = append(results, rs...)

			if kind, err := parser.KindFromFilename(upload.Name); err == nil && kind != parser.KindUnknown && !seen[kind] {
				seen[kind] = true
				present = append(present, kind)
			}
		}
	}
	log.Printf("Analysis %s: %d metric results from %d simulation(s)", req.ID, len(results), len(req.Simulations))

	table, notices := c.Aggregate(present, results)
	out.Table = table
	out.Notices = append(out.Notices, notices...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	figures, notices := Render(table)
	out.Figures = figures
	out.Notices = append(out.Notices, notices...)
	return out, nil
}
