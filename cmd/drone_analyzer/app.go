package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/user/drone_analyzer_go/internal/config"
	"github.com/user/drone_analyzer_go/internal/pipeline"
	"github.com/user/drone_analyzer_go/internal/report"
)

// App is bound to the desktop front end.
type App struct {
	ctx context.Context
	cfg *config.Config
}

func NewApp() *App {
	return &App{}
}

// Startup keeps the runtime context for dialogs and events.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	runtime.WindowSetTitle(a.ctx, "Drone Analyzer")
	if _, err := a.settings(); err != nil {
		log.Printf("Error loading configuration: %v", err)
	}
}

// settings loads the configuration once per session.
func (a *App) settings() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// reportDirectory is the configured report folder when it exists on disk.
func reportDirectory(cfg *config.Config) string {
	if cfg == nil || cfg.ReportDir == "" {
		return ""
	}
	if info, err := os.Stat(cfg.ReportDir); err != nil || !info.IsDir() {
		return ""
	}
	return cfg.ReportDir
}

// SimulationFiles is one simulation as picked in the UI.
type SimulationFiles struct {
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

// ReportRequest is what the front end sends to start a run.
type ReportRequest struct {
	Mode        string            `json:"mode"`
	Simulations []SimulationFiles `json:"simulations"`
	PDFPath     string            `json:"pdfPath"`
}

func (a *App) sendStatus(message string) {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "statusUpdate", message)
	}
	log.Println(message)
}

func (a *App) clearLog() {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "clearLog")
	}
}

func (a *App) finish(ok bool, message string) {
	a.sendStatus(message)
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "generationComplete", ok, message)
	}
}

// SelectCSVFiles opens a multi-select dialog for simulation CSV files.
func (a *App) SelectCSVFiles() ([]string, error) {
	return runtime.OpenMultipleFilesDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Select simulation CSV files",
		Filters: []runtime.FileFilter{
			{DisplayName: "CSV files (*.csv)", Pattern: "*.csv"},
		},
	})
}

// SelectReportPath asks where the PDF report goes.
func (a *App) SelectReportPath() (string, error) {
	return runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:            "Save report",
		DefaultDirectory: reportDirectory(a.cfg),
		DefaultFilename:  "drone-analysis.pdf",
		Filters: []runtime.FileFilter{
			{DisplayName: "PDF (*.pdf)", Pattern: "*.pdf"},
		},
	})
}

func readUploads(paths []string) ([]pipeline.Upload, error) {
	uploads := make([]pipeline.Upload, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		uploads = append(uploads, pipeline.Upload{Name: filepath.Base(p), Content: content})
	}
	return uploads, nil
}

func buildRequest(in ReportRequest) (pipeline.Request, []string, error) {
	mode, err := pipeline.ParseMode(in.Mode)
	if err != nil {
		return pipeline.Request{}, nil, err
	}
	if mode == pipeline.ModeSimple {
		var paths []string
		for _, sim := range in.Simulations {
			paths = append(paths, sim.Paths...)
		}
		files, err := readUploads(paths)
		if err != nil {
			return pipeline.Request{}, nil, err
		}
		return pipeline.NewSimpleRequest(files), nil, nil
	}

	sims := make([]pipeline.Simulation, 0, len(in.Simulations))
	names := make([]string, 0, len(in.Simulations))
	for _, s := range in.Simulations {
		files, err := readUploads(s.Paths)
		if err != nil {
			return pipeline.Request{}, nil, err
		}
		sims = append(sims, pipeline.Simulation{Name: strings.TrimSpace(s.Name), Files: files})
		names = append(names, strings.TrimSpace(s.Name))
	}
	return pipeline.NewCompleteRequest(sims), names, nil
}

// HandleGenerateReport starts a run in the background. Progress and the final
// result are reported through events.
func (a *App) HandleGenerateReport(in ReportRequest) (string, error) {
	if strings.TrimSpace(in.PDFPath) == "" {
		return "", fmt.Errorf("no report path selected")
	}
	a.clearLog()
	a.sendStatus(fmt.Sprintf("Request: mode=%s, %d simulation(s), PDF=[%s]", in.Mode, len(in.Simulations), in.PDFPath))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.finish(false, fmt.Sprintf("PANIC recovered: %v", r))
			}
		}()

		runtime.EventsEmit(a.ctx, "generationStart")

		cfg, err := a.settings()
		if err != nil {
			a.finish(false, fmt.Sprintf("Error loading configuration: %v", err))
			return
		}

		req, names, err := buildRequest(in)
		if err != nil {
			a.finish(false, fmt.Sprintf("Error reading input: %v", err))
			return
		}

		a.sendStatus("Analyzing files...")
		catalog := pipeline.NewCatalog(report.Options{HistogramBins: cfg.HistogramBins})
		out, err := catalog.Run(a.ctx, req)
		if err != nil {
			a.finish(false, fmt.Sprintf("Analysis failed: %v", err))
			return
		}
		for _, n := range out.Notices {
			a.sendStatus(fmt.Sprintf("- %s", n))
		}
		a.sendStatus(fmt.Sprintf("Analysis complete. %d chart(s).", len(out.Figures)))

		meta := report.Meta{ID: out.ID.String(), Mode: out.Mode.String(), Simulations: names, Generated: time.Now()}

		a.sendStatus(fmt.Sprintf("Generating PDF: %s...", in.PDFPath))
		if err := report.BuildPDFReport(in.PDFPath, meta, out.Figures, out.Summary(), out.Notices); err != nil {
			a.finish(false, fmt.Sprintf("Error generating PDF report: %v", err))
			return
		}

		if len(out.Figures) > 0 {
			htmlPath := strings.TrimSuffix(in.PDFPath, filepath.Ext(in.PDFPath)) + ".html"
			if err := report.WriteDashboard(htmlPath, meta, out.Figures, cfg.AssetsHost); err != nil {
				a.sendStatus(fmt.Sprintf("Error writing dashboard: %v", err))
			} else {
				a.sendStatus(fmt.Sprintf("Interactive charts written: %s", htmlPath))
			}
		}

		a.finish(true, fmt.Sprintf("PDF report successfully generated: %s", in.PDFPath))
	}()

	return "Report generation started in background.", nil
}
