package report

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gonum.org/v1/plot/vg"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// Meta describes the analysis pass a document belongs to.
type Meta struct {
	ID          string
	Mode        string
	Simulations []string
	Generated   time.Time
}

func (m Meta) subtitle() string {
	parts := []string{fmt.Sprintf("Mode: %s", m.Mode)}
	if len(m.Simulations) > 0 {
		parts = append(parts, fmt.Sprintf("Simulations: %s", strings.Join(m.Simulations, ", ")))
	}
	if !m.Generated.IsZero() {
		parts = append(parts, fmt.Sprintf("Generated: %s", m.Generated.Format("2006-01-02 15:04")))
	}
	if m.ID != "" {
		parts = append(parts, fmt.Sprintf("Analysis ID: %s", m.ID))
	}
	return strings.Join(parts, "   |   ")
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // Y position of flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["small"] = func() {
		s.pdf.SetFont("Arial", "I", 8)
		s.pdf.SetTextColor(90, 90, 90)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellWarn"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 120, 0)
	}
	s.styles["tableCellRed"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(math.Max(1, float64(len(lines))) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64) {
	s.pdf.RegisterImageOptionsReader(imageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(imageBytes))
	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}
	s.checkAddPage(height)
	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.ImageOptions(imageName, x, s.currentY, width, height, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	s.currentY += height
	s.addSpacer(2)
}

// table draws a header row and body rows. cellStyle picks the style of each
// cell; nil uses "tableCell".
func (s *pdfStyler) table(headers []string, widthsRel []float64, rows [][]string, cellStyle func(row, col int) string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}
	header := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, h := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	header()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			header()
		}
		x := pdfMargin
		for c, cellData := range row {
			style := "tableCell"
			if cellStyle != nil {
				style = cellStyle(r, c)
			}
			s.applyStyle(style)
			s.pdf.SetXY(x, s.currentY)
			align := "C"
			if c == len(row)-1 && len(cellData) > 40 {
				align = "L"
			}
			s.pdf.CellFormat(widths[c], s.lineHeight, truncate(s.pdf, cellData, widths[c]-2), "1", 0, align, false, 0, "")
			x += widths[c]
		}
		s.currentY += s.lineHeight
	}
}

// truncate shortens text to fit a cell of the given width.
func truncate(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	r := []rune(text)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (s *pdfStyler) noticeSection(notices []Notice) {
	s.writeParagraph("Notices", "h2", "L")
	if len(notices) == 0 {
		s.writeParagraph("All files and metrics were processed without notices.", "normal", "L")
		return
	}
	rows := make([][]string, len(notices))
	for i, n := range notices {
		rows[i] = []string{n.Level.String(), n.File, n.Metric, n.Message}
	}
	s.table([]string{"Level", "File", "Metric", "Message"}, []float64{0.08, 0.2, 0.2, 0.52}, rows,
		func(row, col int) string {
			if col != 0 {
				return "tableCell"
			}
			switch notices[row].Level {
			case LevelError:
				return "tableCellRed"
			case LevelWarning:
				return "tableCellWarn"
			}
			return "tableCell"
		})
}

func (s *pdfStyler) summarySection(summary []SummaryRow) {
	s.writeParagraph("Summary statistics (95% confidence)", "h2", "L")
	if len(summary) == 0 {
		s.writeParagraph("No scalar results to display.", "normal", "L")
		return
	}
	rows := make([][]string, len(summary))
	for i, r := range summary {
		rows[i] = []string{
			r.Kind,
			r.Title,
			r.Label,
			fmt.Sprintf("%.3f", r.Mean),
			fmt.Sprintf("%.3f", r.StdDev),
			fmt.Sprintf("%.3f", r.Interval),
			fmt.Sprintf("%d", r.N),
		}
	}
	s.table([]string{"Dataset", "Metric", "Simulation", "Mean", "Std Dev", "95% CI", "N"},
		[]float64{0.17, 0.3, 0.17, 0.09, 0.09, 0.09, 0.09}, rows, nil)
}

// WritePDFReport renders the report to w.
func WritePDFReport(w io.Writer, meta Meta, figures []*Figure, summary []SummaryRow, notices []Notice) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)
	styler.writeParagraph("Drone Simulation Analysis Report", "h1", "C")
	styler.writeParagraph(meta.subtitle(), "small", "C")
	styler.addSpacer(5)

	styler.summarySection(summary)
	styler.addSpacer(5)
	styler.noticeSection(notices)

	if len(figures) > 0 {
		styler.newPage()
		styler.writeParagraph("Graphical Analysis", "h1", "C")
		styler.addSpacer(3)
	}

	imgWidth := pdfContentWidth * 0.85
	imgHeight := imgWidth * 0.5
	for i, fig := range figures {
		if i > 0 && i%2 == 0 {
			styler.newPage()
		}
		styler.writeParagraph(fig.Title, "h2", "L")
		png, err := fig.PNG(vg.Points(800), vg.Points(400))
		if err != nil {
			log.Printf("Warning: skipping figure %s: %v", fig.Title, err)
			styler.writeParagraph(fmt.Sprintf("Plot for %s not available.", fig.Title), "normal", "L")
			continue
		}
		styler.addImage(png, fmt.Sprintf("figure_%d", i), imgWidth, imgHeight)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf.Output(w)
}

// BuildPDFReport writes the report to a file.
func BuildPDFReport(filepath string, meta Meta, figures []*Figure, summary []SummaryRow, notices []Notice) error {
	var buf bytes.Buffer
	if err := WritePDFReport(&buf, meta, figures, summary, notices); err != nil {
		return err
	}
	return writeFile(filepath, buf.Bytes())
}
