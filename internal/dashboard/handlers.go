package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/user/drone_analyzer_go/internal/pipeline"
	"github.com/user/drone_analyzer_go/internal/report"
)

// maxFormSlots bounds how many sim_<i>_ fields are scanned.
const maxFormSlots = 10

type indexPage struct {
	MaxSimulations int
	MaxUploadMB    int
}

type resultsPage struct {
	ID       string
	Mode     string
	Notices  []report.Notice
	Summary  []report.SummaryRow
	Charts   string
	Problems []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, http.StatusOK, "index.html", indexPage{
		MaxSimulations: pipeline.MaxSimulations,
		MaxUploadMB:    s.cfg.MaxUploadMB,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// readRequest turns the multipart form into an analysis request. Simulation i
// is described by the fields sim_<i>_name and sim_<i>_files.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes()); err != nil {
		return pipeline.Request{}, fmt.Errorf("failed to read upload: %w", err)
	}
	mode, err := pipeline.ParseMode(r.FormValue("mode"))
	if err != nil {
		return pipeline.Request{}, err
	}

	var sims []pipeline.Simulation
	for i := 0; i < maxFormSlots; i++ {
		name := strings.TrimSpace(r.FormValue(fmt.Sprintf("sim_%d_name", i)))
		headers := r.MultipartForm.File[fmt.Sprintf("sim_%d_files", i)]
		if name == "" && len(headers) == 0 {
			continue
		}
		sim := pipeline.Simulation{Name: name}
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return pipeline.Request{}, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return pipeline.Request{}, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
			}
			sim.Files = append(sim.Files, pipeline.Upload{Name: fh.Filename, Content: content})
		}
		sims = append(sims, sim)
	}

	if mode == pipeline.ModeSimple {
		var files []pipeline.Upload
		for _, sim := range sims {
			files = append(files, sim.Files...)
		}
		return pipeline.NewSimpleRequest(files), nil
	}
	return pipeline.NewCompleteRequest(sims), nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.readRequest(w, r)
	if err != nil {
		s.renderTemplate(w, http.StatusBadRequest, "results.html", resultsPage{Problems: []string{err.Error()}})
		return
	}

	out, err := s.catalog.Run(r.Context(), req)
	if err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			s.renderTemplate(w, http.StatusBadRequest, "results.html", resultsPage{ID: req.ID.String(), Problems: verr.Problems})
			return
		}
		log.Printf("Analysis %s aborted: %v", req.ID, err)
		http.Error(w, "analysis aborted", http.StatusServiceUnavailable)
		return
	}

	meta := report.Meta{ID: out.ID.String(), Mode: out.Mode.String(), Generated: time.Now()}
	for _, sim := range req.Simulations {
		if sim.Name != "" {
			meta.Simulations = append(meta.Simulations, sim.Name)
		}
	}

	switch strings.ToLower(r.FormValue("format")) {
	case "pdf":
		var buf bytes.Buffer
		if err := report.WritePDFReport(&buf, meta, out.Figures, out.Summary(), out.Notices); err != nil {
			log.Printf("PDF report %s failed: %v", out.ID, err)
			http.Error(w, "failed to build PDF report", http.StatusInternalServerError)
			return
		}
		s.sendAttachment(w, "application/pdf", fmt.Sprintf("drone-analysis-%s.pdf", out.ID), buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, out.Summary(), out.PerRun(), out.Notices); err != nil {
			log.Printf("XLSX export %s failed: %v", out.ID, err)
			http.Error(w, "failed to build workbook", http.StatusInternalServerError)
			return
		}
		s.sendAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			fmt.Sprintf("drone-analysis-%s.xlsx", out.ID), buf.Bytes())
	default:
		page := resultsPage{
			ID:      out.ID.String(),
			Mode:    out.Mode.String(),
			Notices: out.Notices,
			Summary: out.Summary(),
		}
		if len(out.Figures) > 0 {
			var charts bytes.Buffer
			if err := report.RenderDashboard(&charts, meta, out.Figures, s.cfg.AssetsHost); err != nil {
				log.Printf("Dashboard %s failed: %v", out.ID, err)
				page.Notices = append(page.Notices, report.Notice{Level: report.LevelError, Message: fmt.Sprintf("failed to render charts: %v", err)})
			} else {
				page.Charts = charts.String()
			}
		}
		s.renderTemplate(w, http.StatusOK, "results.html", page)
	}
}

func (s *Server) sendAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}
