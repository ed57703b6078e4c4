package server

import (
	"net/http"
	"sync"

	"bcviz/internal/charts"
	"bcviz/internal/config"
	"bcviz/internal/llm"
	"bcviz/internal/models"
	"bcviz/internal/reports"
	"bcviz/internal/storage"
)

// Server serves the black carbon dashboard over HTTP. The dataset is
// synthesized once at startup and shared read-only across handlers.
type Server struct {
	Config    *config.Config
	Dataset   *models.Dataset
	ChartGen  *charts.Generator
	Builder   *reports.HTMLBuilder
	Publisher *reports.SnapshotPublisher
	Storage   storage.Client

	snapshotMutex sync.Mutex
}

// NewServer creates a new server instance around a synthesized dataset.
func NewServer(cfg *config.Config, dataset *models.Dataset, chartGen *charts.Generator, store storage.Client, narrator *llm.Client) *Server {
	builder := reports.NewHTMLBuilder()

	return &Server{
		Config:    cfg,
		Dataset:   dataset,
		ChartGen:  chartGen,
		Builder:   builder,
		Publisher: reports.NewSnapshotPublisher(builder, chartGen, narrator, store),
		Storage:   store,
	}
}

// SetupRoutes configures HTTP routes and wraps them with request
// logging.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/chart", s.HandleChartPage)
	mux.HandleFunc("/charts/", s.HandleChartPNG)
	mux.HandleFunc("/api/records", s.HandleRecords)
	mux.HandleFunc("/api/stats", s.HandleStats)
	mux.HandleFunc("/snapshot", s.HandleSnapshot)
	mux.HandleFunc("/snapshots", s.HandleListSnapshots)
	mux.HandleFunc("/files/", s.HandleFileProxy)
	mux.HandleFunc("/styles.css", s.HandleStyles)

	// Root path last (catch-all)
	mux.HandleFunc("/", s.HandleDashboard)

	return s.withRequestLogging(mux)
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
