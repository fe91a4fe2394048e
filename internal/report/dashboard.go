package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/components"
)

// RenderDashboard writes every figure's interactive chart on one page.
// assetsHost overrides where the echarts scripts are loaded from.
func RenderDashboard(w io.Writer, meta Meta, figures []*Figure, assetsHost string) error {
	page := components.NewPage()
	page.PageTitle = "Drone Simulation Analysis"
	page.SetLayout(components.PageFlexLayout)
	if assetsHost != "" {
		page.SetAssetsHost(assetsHost)
	}
	added := 0
	for _, fig := range figures {
		if fig.chart == nil {
			continue
		}
		page.AddCharts(fig.chart)
		added++
	}
	if added == 0 {
		return fmt.Errorf("no charts to render for analysis %s", meta.ID)
	}
	return page.Render(w)
}

// WriteDashboard writes the dashboard page to a file.
func WriteDashboard(path string, meta Meta, figures []*Figure, assetsHost string) error {
	var buf bytes.Buffer
	if err := RenderDashboard(&buf, meta, figures, assetsHost); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
