package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bcviz/internal/analysis"
	"bcviz/internal/charts"
	"bcviz/internal/config"
	"bcviz/internal/logger"
	"bcviz/internal/models"
	"bcviz/internal/reports"
	"bcviz/internal/storage"
)

// HandleDashboard serves the interactive dashboard page
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view := models.ParseViewMode(r.URL.Query().Get("view"))
	season := models.ParseSeasonFilter(r.URL.Query().Get("season"))

	// A filter matching nothing still renders a chart with no points
	filtered := s.filteredRecords(season)

	viewSnippet, err := s.ChartGen.ViewSnippet(view, filtered)
	if err != nil {
		s.serveErrorPage(w, "Failed to build chart", err)
		return
	}

	// Distribution always covers the whole dataset
	shares := analysis.Distribution(s.Dataset.Records, models.Seasons())
	distSnippet, err := s.ChartGen.DistributionSnippet(shares)
	if err != nil {
		s.serveErrorPage(w, "Failed to build distribution chart", err)
		return
	}

	page, err := s.Builder.BuildDashboard(reports.PageParams{
		View:         view,
		Season:       season,
		ChartHTML:    []string{viewSnippet.HTML, distSnippet.HTML},
		Records:      s.Dataset.Records,
		ShowControls: true,
	})
	if err != nil {
		s.serveErrorPage(w, "Failed to build dashboard", err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(page))
}

// HandleChartPage serves a standalone interactive chart page
func (s *Server) HandleChartPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view := models.ParseViewMode(r.URL.Query().Get("view"))
	season := models.ParseSeasonFilter(r.URL.Query().Get("season"))
	filtered := s.filteredRecords(season)

	var buf bytes.Buffer
	if err := s.ChartGen.RenderStandalonePage(&buf, view, filtered); err != nil {
		s.serveErrorPage(w, "Failed to render chart page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.Write(buf.Bytes())
}

// HandleChartPNG serves static PNG exports at /charts/{view}.png
func (s *Server) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/charts/")
	if !strings.HasSuffix(name, ".png") {
		http.NotFound(w, r)
		return
	}

	var view models.ViewMode
	switch strings.TrimSuffix(name, ".png") {
	case string(models.ViewScatter):
		view = models.ViewScatter
	case string(models.ViewTimeSeries):
		view = models.ViewTimeSeries
	case string(models.ViewMACAnalysis):
		view = models.ViewMACAnalysis
	default:
		http.NotFound(w, r)
		return
	}

	season := models.ParseSeasonFilter(r.URL.Query().Get("season"))
	filtered := s.filteredRecords(season)

	var buf bytes.Buffer
	if err := s.ChartGen.RenderPNG(&buf, view, filtered); err != nil {
		if errors.Is(err, charts.ErrInsufficientData) {
			http.Error(w, "Not enough data points to render chart", http.StatusUnprocessableEntity)
			return
		}
		logger.Error("PNG render failed", err, map[string]interface{}{"view": string(view)})
		http.Error(w, "Chart rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// HandleRecords serves the measurement records as JSON
func (s *Server) HandleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	season := models.ParseSeasonFilter(r.URL.Query().Get("season"))
	filtered := s.filteredRecords(season)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records":   filtered,
		"count":     len(filtered),
		"season":    string(season),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleStats serves seasonal statistics as JSON. The overall mean is
// null when the dataset is empty, never NaN.
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records := s.Dataset.Records
	stats := analysis.SeasonalStats(records)
	shares := analysis.Distribution(records, models.Seasons())

	seasonStats := make(map[string]map[string]interface{}, len(stats))
	for season, stat := range stats {
		seasonStats[string(season)] = map[string]interface{}{
			"mean_mac": stat.MeanMAC,
			"count":    stat.Count,
		}
	}

	response := map[string]interface{}{
		"record_count": len(records),
		"seasons":      seasonStats,
		"distribution": shares,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}
	if mean, ok := analysis.OverallMean(records); ok {
		response["overall_mean_mac"] = mean
	} else {
		response["overall_mean_mac"] = nil
	}

	writeJSON(w, http.StatusOK, response)
}

// HandleSnapshot publishes a dashboard snapshot to storage
func (s *Server) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Only one snapshot export at a time
	if !s.snapshotMutex.TryLock() {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":  "Snapshot export already in progress",
			"status": "conflict",
		})
		return
	}
	defer s.snapshotMutex.Unlock()

	result, err := s.Publisher.Publish(r.Context(), s.Dataset)
	if err != nil {
		logger.Error("Snapshot export failed", err)
		http.Error(w, "Snapshot export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleListSnapshots lists recent snapshots
func (s *Server) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
		if limit > 100 {
			limit = 100
		}
	}

	snapshots, err := s.Storage.ListSnapshots(r.Context(), limit)
	if err != nil {
		logger.Error("Failed to list snapshots", err)
		http.Error(w, "Failed to list snapshots: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleFileProxy serves stored snapshot files and cached assets
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}

	// Prevent directory traversal
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	fileData, err := s.Storage.GetObject(r.Context(), filePath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(fileData)
}

// HandleStyles serves the dashboard CSS
func (s *Server) HandleStyles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	css, err := s.Builder.LoadStaticCSS()
	if err != nil {
		logger.Error("Failed to load CSS", err)
		http.Error(w, "Stylesheet unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/css")
	w.Write([]byte(css))
}

// HandleHealth provides the health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"records":   len(s.Dataset.Records),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// filteredRecords returns the dataset filtered by season, in
// chronological order.
func (s *Server) filteredRecords(season models.SeasonFilter) []models.MeasurementRecord {
	return analysis.SortByTimestamp(analysis.Filter(s.Dataset.Records, season))
}

// serveErrorPage writes a minimal HTML error page
func (s *Server) serveErrorPage(w http.ResponseWriter, message string, err error) {
	logger.Error(message, err)
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "<html><body><h1>Something went wrong</h1><p>%s. Please try again later.</p></body></html>", message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
