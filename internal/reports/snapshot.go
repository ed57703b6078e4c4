package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bcviz/internal/analysis"
	"bcviz/internal/charts"
	"bcviz/internal/llm"
	"bcviz/internal/logger"
	"bcviz/internal/models"
	"bcviz/internal/storage"
)

// SnapshotPublisher exports a self-contained dashboard snapshot (HTML,
// CSS, PNG charts, statistics and narrative) into storage.
type SnapshotPublisher struct {
	builder  *HTMLBuilder
	chartGen *charts.Generator
	narrator *llm.Client
	store    storage.Client
}

// NewSnapshotPublisher creates a snapshot publisher.
func NewSnapshotPublisher(builder *HTMLBuilder, chartGen *charts.Generator, narrator *llm.Client, store storage.Client) *SnapshotPublisher {
	return &SnapshotPublisher{
		builder:  builder,
		chartGen: chartGen,
		narrator: narrator,
		store:    store,
	}
}

// SnapshotResult describes a published snapshot.
type SnapshotResult struct {
	FolderPath string   `json:"folder_path"`
	IndexPath  string   `json:"index_path"`
	Files      []string `json:"files"`
}

// snapshotStats is the stats.json payload stored with each snapshot.
type snapshotStats struct {
	GeneratedAt string                  `json:"generated_at"`
	RecordCount int                     `json:"record_count"`
	OverallMAC  *float64                `json:"overall_mean_mac,omitempty"`
	Seasons     []snapshotSeasonSummary `json:"seasons"`
}

type snapshotSeasonSummary struct {
	Season     string   `json:"season"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
	MeanMAC    *float64 `json:"mean_mac,omitempty"`
}

// Publish exports the dataset's dashboard as a snapshot folder and
// returns the paths written.
func (p *SnapshotPublisher) Publish(ctx context.Context, dataset *models.Dataset) (*SnapshotResult, error) {
	now := time.Now().UTC()
	folderPath := storage.SnapshotFolderPath(now)

	sorted := analysis.SortByTimestamp(dataset.Records)
	stats := analysis.SeasonalStats(sorted)
	shares := analysis.Distribution(sorted, models.Seasons())

	narrative := p.buildNarrative(ctx, dataset, stats, shares)

	chartHTML, err := p.renderCharts(sorted, shares)
	if err != nil {
		return nil, err
	}

	indexHTML, err := p.builder.BuildDashboard(PageParams{
		View:              models.ViewScatter,
		Season:            models.FilterAll,
		ChartHTML:         chartHTML,
		Records:           sorted,
		NarrativeMarkdown: narrative,
		CSSFilePath:       "styles.css",
		ShowControls:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot page: %w", err)
	}

	css, err := p.builder.LoadStaticCSS()
	if err != nil {
		return nil, err
	}

	statsJSON, err := json.MarshalIndent(p.buildStats(now, sorted, stats, shares), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot stats: %w", err)
	}

	files := map[string][]byte{
		"index.html":   []byte(indexHTML),
		"styles.css":   []byte(css),
		"stats.json":   statsJSON,
		"narrative.md": []byte(narrative),
	}
	for name, data := range p.renderPNGs(sorted) {
		files[name] = data
	}

	result := &SnapshotResult{
		FolderPath: folderPath,
		IndexPath:  folderPath + "/index.html",
	}
	for name, data := range files {
		objectPath := folderPath + "/" + name
		if err := p.store.StoreObject(ctx, objectPath, data); err != nil {
			return nil, fmt.Errorf("failed to store snapshot file %s: %w", name, err)
		}
		result.Files = append(result.Files, objectPath)
	}

	logger.Info("Published snapshot", map[string]interface{}{
		"folder": folderPath,
		"files":  len(result.Files),
	})
	return result, nil
}

// buildNarrative generates the markdown narrative, falling back to a
// plain statistical summary when generation is disabled or fails.
func (p *SnapshotPublisher) buildNarrative(ctx context.Context, dataset *models.Dataset, stats map[models.Season]analysis.SeasonStat, shares []analysis.SeasonShare) string {
	if p.narrator != nil && p.narrator.Enabled() {
		narrative, err := p.narrator.GenerateNarrative(ctx, dataset, stats, shares)
		if err == nil {
			return narrative
		}
		logger.Warn("Narrative generation failed, using fallback summary", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return llm.FallbackNarrative(dataset.Records, stats)
}

// renderCharts builds the embeddable chart fragments for all views plus
// the season distribution pie.
func (p *SnapshotPublisher) renderCharts(records []models.MeasurementRecord, shares []analysis.SeasonShare) ([]string, error) {
	views := []models.ViewMode{models.ViewScatter, models.ViewTimeSeries, models.ViewMACAnalysis}

	var chartHTML []string
	for _, view := range views {
		snippet, err := p.chartGen.ViewSnippet(view, records)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s chart: %w", view, err)
		}
		chartHTML = append(chartHTML, snippet.HTML)
	}

	distribution, err := p.chartGen.DistributionSnippet(shares)
	if err != nil {
		return nil, fmt.Errorf("failed to build distribution chart: %w", err)
	}
	chartHTML = append(chartHTML, distribution.HTML)

	return chartHTML, nil
}

// renderPNGs renders static PNG exports for each view. Views with too
// few points are skipped rather than failing the snapshot.
func (p *SnapshotPublisher) renderPNGs(records []models.MeasurementRecord) map[string][]byte {
	pngs := make(map[string][]byte)
	for _, view := range []models.ViewMode{models.ViewScatter, models.ViewTimeSeries, models.ViewMACAnalysis} {
		var buf bytes.Buffer
		if err := p.chartGen.RenderPNG(&buf, view, records); err != nil {
			if !errors.Is(err, charts.ErrInsufficientData) {
				logger.Warn("PNG render failed", map[string]interface{}{
					"view":  string(view),
					"error": err.Error(),
				})
			}
			continue
		}
		pngs[string(view)+".png"] = buf.Bytes()
	}
	return pngs
}

// buildStats assembles the stats.json payload.
func (p *SnapshotPublisher) buildStats(now time.Time, records []models.MeasurementRecord, stats map[models.Season]analysis.SeasonStat, shares []analysis.SeasonShare) snapshotStats {
	payload := snapshotStats{
		GeneratedAt: now.Format(time.RFC3339),
		RecordCount: len(records),
	}
	if mean, ok := analysis.OverallMean(records); ok {
		payload.OverallMAC = &mean
	}
	for _, share := range shares {
		summary := snapshotSeasonSummary{
			Season:     string(share.Season),
			Count:      share.Count,
			Percentage: share.Percentage,
		}
		if stat, ok := stats[share.Season]; ok {
			mean := stat.MeanMAC
			summary.MeanMAC = &mean
		}
		payload.Seasons = append(payload.Seasons, summary)
	}
	return payload
}
