package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bcviz/internal/charts"
	"bcviz/internal/config"
	"bcviz/internal/llm"
	"bcviz/internal/models"
	"bcviz/internal/storage"
	"bcviz/internal/synth"
)

const testAssetURL = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	gen := synth.New(rand.New(rand.NewSource(11)))
	records, err := gen.Generate(40, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 3)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	dataset := &models.Dataset{
		Records:     records,
		GeneratedAt: time.Now().UTC(),
		SampleSize:  len(records),
		StartDate:   "2022-01-01",
		StepDays:    3,
	}

	store, err := storage.NewLocalClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalClient() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{Port: "8980", Environment: "test"}
	return NewServer(cfg, dataset, charts.NewGenerator(testAssetURL), store, llm.NewClient("", "gpt-4.1"))
}

func TestHandleDashboard(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	tests := []struct {
		name string
		url  string
	}{
		{"default view", "/"},
		{"timeseries view", "/?view=timeseries"},
		{"mac view with season filter", "/?view=mac&season=dry"},
		{"unknown params fall back to defaults", "/?view=bogus&season=bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s status = %d, want 200", tt.url, rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, "<form") {
				t.Error("dashboard should include filter controls")
			}
			if !strings.Contains(body, "summary-table") {
				t.Error("dashboard should include the summary table")
			}
			if !strings.Contains(body, "echarts.init") {
				t.Error("dashboard should include chart scripts")
			}
		})
	}
}

func TestHandleDashboardNotFound(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nonexistent status = %d, want 404", rec.Code)
	}
}

func TestHandleDashboardMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / status = %d, want 405", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", rec.Code)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("health response is not JSON: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("health status = %v, want healthy", health["status"])
	}
	if health["records"] != float64(40) {
		t.Errorf("health records = %v, want 40", health["records"])
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("responses should carry a request ID")
	}
}

func TestHandleRecords(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/records status = %d, want 200", rec.Code)
	}

	var response struct {
		Records []models.MeasurementRecord `json:"records"`
		Count   int                        `json:"count"`
		Season  string                     `json:"season"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("records response is not JSON: %v", err)
	}
	if response.Count != 40 {
		t.Errorf("unfiltered count = %d, want 40", response.Count)
	}

	// Records come back in chronological order
	for i := 1; i < len(response.Records); i++ {
		if response.Records[i].TimestampMillis < response.Records[i-1].TimestampMillis {
			t.Fatal("records are not sorted by timestamp")
		}
	}
}

func TestHandleRecordsSeasonFilter(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/records?season=belg", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var response struct {
		Records []models.MeasurementRecord `json:"records"`
		Count   int                        `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("records response is not JSON: %v", err)
	}
	if response.Count == 0 || response.Count == 40 {
		t.Errorf("belg filter should return a strict subset, got %d", response.Count)
	}
	for _, record := range response.Records {
		if record.Season != models.SeasonBelg {
			t.Fatalf("filtered response contains season %s", record.Season)
		}
	}
}

func TestHandleStats(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/stats status = %d, want 200", rec.Code)
	}

	var response struct {
		RecordCount    int                    `json:"record_count"`
		OverallMeanMAC *float64               `json:"overall_mean_mac"`
		Seasons        map[string]interface{} `json:"seasons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("stats response is not JSON: %v", err)
	}
	if response.RecordCount != 40 {
		t.Errorf("record count = %d, want 40", response.RecordCount)
	}
	if response.OverallMeanMAC == nil {
		t.Error("overall mean should be set for a non-empty dataset")
	}
	if len(response.Seasons) == 0 {
		t.Error("stats should include seasonal breakdown")
	}
}

func TestHandleStatsEmptyDataset(t *testing.T) {
	srv := newTestServer(t)
	srv.Dataset.Records = nil
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var response map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("stats response is not JSON: %v", err)
	}
	if response["overall_mean_mac"] != nil {
		t.Errorf("empty dataset overall mean = %v, want null", response["overall_mean_mac"])
	}
	if strings.Contains(rec.Body.String(), "NaN") {
		t.Error("stats must never contain NaN")
	}
}

func TestHandleChartPage(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/chart?view=timeseries", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /chart status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "echarts") {
		t.Error("chart page should embed ECharts")
	}
}

func TestHandleChartPNG(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	for _, name := range []string{"scatter", "timeseries", "mac"} {
		req := httptest.NewRequest(http.MethodGet, "/charts/"+name+".png", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("GET /charts/%s.png status = %d, want 200", name, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type = %s, want image/png", ct)
		}
		if rec.Body.Len() == 0 {
			t.Errorf("empty PNG body for %s", name)
		}
	}
}

func TestHandleChartPNGUnknownView(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/charts/gauge.png", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /charts/gauge.png status = %d, want 404", rec.Code)
	}
}

func TestHandleChartPNGInsufficientData(t *testing.T) {
	srv := newTestServer(t)
	srv.Dataset.Records = srv.Dataset.Records[:1]
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/charts/scatter.png", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422 for single-record dataset", rec.Code)
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	// No snapshots yet
	req := httptest.NewRequest(http.MethodGet, "/snapshots", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var listing struct {
		Snapshots []string `json:"snapshots"`
		Count     int      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("snapshots response is not JSON: %v", err)
	}
	if listing.Count != 0 {
		t.Fatalf("expected no snapshots before export, got %d", listing.Count)
	}

	// Export one
	req = httptest.NewRequest(http.MethodPost, "/snapshot", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /snapshot status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		IndexPath string `json:"index_path"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("snapshot response is not JSON: %v", err)
	}

	// Now listed
	req = httptest.NewRequest(http.MethodGet, "/snapshots", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("snapshots response is not JSON: %v", err)
	}
	if listing.Count != 1 {
		t.Fatalf("expected 1 snapshot after export, got %d", listing.Count)
	}

	// And served through the file proxy
	req = httptest.NewRequest(http.MethodGet, "/files/"+result.IndexPath, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /files/%s status = %d, want 200", result.IndexPath, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("content type = %s, want text/html", ct)
	}
}

func TestHandleSnapshotMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /snapshot status = %d, want 405", rec.Code)
	}
}

func TestHandleFileProxyTraversal(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/files/../secrets.txt", nil)
	req.URL.Path = "/files/../secrets.txt" // bypass client-side path cleaning
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusNotFound &&
		rec.Code != http.StatusMovedPermanently {
		t.Errorf("traversal request status = %d, want rejection", rec.Code)
	}
}

func TestHandleStyles(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/styles.css", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /styles.css status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/css" {
		t.Errorf("content type = %s, want text/css", ct)
	}
}
