package dashboard

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/user/drone_analyzer_go/internal/config"
)

const simulationCSV = `Numero da execucao,numero total de drones colidentes,numero de drones lancados no tempo estavel,numero total de drones lancados
0,10,100,200
1,20,200,400
`

const otherSimulationCSV = `Numero da execucao,numero total de drones colidentes,numero de drones lancados no tempo estavel,numero total de drones lancados
0,5,100,150
1,15,100,150
`

type formFile struct {
	field, name, content string
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(&config.Config{
		DashboardAddr: ":0",
		MaxUploadMB:   4,
		HistogramBins: 20,
		AssetsHost:    "http://localhost/assets/",
	})
	require.NoError(t, err)
	return s
}

func multipartBody(t *testing.T, fields map[string]string, files []formFile) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func postAnalyze(t *testing.T, s *Server, fields map[string]string, files []formFile) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func completeFiles() []formFile {
	return []formFile{
		{"sim_0_files", "generalSimulationData.csv", simulationCSV},
		{"sim_1_files", "generalSimulationData.csv", otherSimulationCSV},
	}
}

func TestIndexListsSimulationSlots(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="sim_0_files"`)
	assert.Contains(t, body, `name="sim_4_files"`)
	assert.NotContains(t, body, `name="sim_5_files"`)
	assert.Contains(t, body, "4 MB")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAnalyzeSimpleHTML(t *testing.T) {
	s := newTestServer(t)
	rec := postAnalyze(t, s,
		map[string]string{"mode": "simple"},
		[]formFile{
			{"sim_0_files", "generalSimulationData.csv", simulationCSV},
			{"sim_0_files", "notes.csv", "a,b\n1,2\n"},
		})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "simple mode")
	assert.Contains(t, body, "notes.csv")
	assert.Contains(t, body, "generalSimulationData.csv")
	assert.Contains(t, body, "<iframe")
	assert.Contains(t, body, "http://localhost/assets/")
}

func TestAnalyzeCompleteHTML(t *testing.T) {
	s := newTestServer(t)
	rec := postAnalyze(t, s,
		map[string]string{"mode": "complete", "sim_0_name": "12/60", "sim_1_name": "24/60"},
		completeFiles())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "complete mode")
	assert.Contains(t, body, "12/60")
	assert.Contains(t, body, "24/60")
	assert.Contains(t, body, "10.000")
}

func TestAnalyzePDF(t *testing.T) {
	s := newTestServer(t)
	rec := postAnalyze(t, s,
		map[string]string{"mode": "complete", "format": "pdf", "sim_0_name": "a", "sim_1_name": "b"},
		completeFiles())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestAnalyzeXLSX(t *testing.T) {
	s := newTestServer(t)
	rec := postAnalyze(t, s,
		map[string]string{"mode": "complete", "format": "xlsx", "sim_0_name": "a", "sim_1_name": "b"},
		completeFiles())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "PerRun", "Notices"}, f.GetSheetList())
}

func TestAnalyzeRejectsInvalidRequests(t *testing.T) {
	s := newTestServer(t)

	for name, tc := range map[string]struct {
		fields map[string]string
		files  []formFile
		want   string
	}{
		"unknown mode": {
			fields: map[string]string{"mode": "bogus"},
			files:  completeFiles(),
			want:   "bogus",
		},
		"single simulation in complete mode": {
			fields: map[string]string{"mode": "complete", "sim_0_name": "a"},
			files:  completeFiles()[:1],
			want:   "2 to 5",
		},
		"duplicate names": {
			fields: map[string]string{"mode": "complete", "sim_0_name": "a", "sim_1_name": "a"},
			files:  completeFiles(),
			want:   "both named",
		},
		"no files": {
			fields: map[string]string{"mode": "simple"},
			want:   "no files",
		},
	} {
		t.Run(name, func(t *testing.T) {
			rec := postAnalyze(t, s, tc.fields, tc.files)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.True(t, strings.Contains(rec.Body.String(), tc.want), rec.Body.String())
		})
	}
}
