package pipeline

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/user/drone_analyzer_go/internal/analysis"
	"github.com/user/drone_analyzer_go/internal/parser"
	"github.com/user/drone_analyzer_go/internal/report"
)

// MetricResult is one metric computed over one file. It carries the entry that
// produced it so the aggregator can plot it without a name lookup.
type MetricResult struct {
	Simulation string
	File       string
	Kind       parser.Kind
	Metric     string
	Value      analysis.Value

	SimIndex  int
	FileIndex int

	entry *Entry
}

// Label names the result in charts: the simulation, or the file when the
// simulation is unnamed.
func (r MetricResult) Label() string {
	if strings.TrimSpace(r.Simulation) != "" {
		return r.Simulation
	}
	return r.File
}

// Entry returns the catalogue entry that produced the result.
func (r MetricResult) Entry() *Entry {
	return r.entry
}

// ProcessFile parses one upload and runs every metric registered for its kind.
// Failures are confined to the metric (or file) that raised them.
func (c *Catalog) ProcessFile(sim Simulation, upload Upload) ([]MetricResult, []report.Notice) {
	var notices []report.Notice

	kind, err := parser.KindFromFilename(upload.Name)
	if err != nil {
		return nil, append(notices, report.Notice{Level: report.LevelError, File: upload.Name, Message: err.Error()})
	}
	if kind == parser.KindUnknown {
		log.Printf("Skipping '%s': no dataset kind matches its name", upload.Name)
		return nil, append(notices, report.Notice{
			Level:   report.LevelWarning,
			File:    upload.Name,
			Message: "file is not associated with any dataset kind and was skipped",
		})
	}

	table, err := parser.ParseTable(upload.Name, bytes.NewReader(upload.Content))
	if err != nil {
		return nil, append(notices, report.Notice{
			Level:   report.LevelError,
			File:    upload.Name,
			Message: fmt.Sprintf("failed to parse file: %v", err),
		})
	}
	for _, w := range table.ParseErrors {
		notices = append(notices, report.Notice{Level: report.LevelInfo, File: upload.Name, Message: w})
	}

	entries := c.Entries(kind)
	results := make([]MetricResult, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		value, err := e.Compute(table)
		if err != nil {
			log.Printf("Metric %s failed on '%s': %v", e.Metric, upload.Name, err)
			notices = append(notices, report.Notice{
				Level:   report.LevelError,
				File:    upload.Name,
				Metric:  e.Metric,
				Message: err.Error(),
			})
			continue
		}
		results = append(results, MetricResult{
			Simulation: sim.Name,
			File:       upload.Name,
			Kind:       kind,
			Metric:     e.Metric,
			Value:      value,
			entry:      e,
		})
	}
	return results, notices
}
