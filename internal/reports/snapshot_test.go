package reports

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"bcviz/internal/charts"
	"bcviz/internal/llm"
	"bcviz/internal/models"
	"bcviz/internal/storage"
)

const testAssetURL = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

func newTestPublisher(t *testing.T) (*SnapshotPublisher, storage.Client) {
	t.Helper()
	store, err := storage.NewLocalClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalClient() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	publisher := NewSnapshotPublisher(
		NewHTMLBuilder(),
		charts.NewGenerator(testAssetURL),
		llm.NewClient("", "gpt-4.1"),
		store,
	)
	return publisher, store
}

func TestPublishSnapshot(t *testing.T) {
	publisher, store := newTestPublisher(t)

	records := testRecords(t, 30)
	dataset := &models.Dataset{
		Records:     records,
		GeneratedAt: time.Now().UTC(),
		SampleSize:  len(records),
		StartDate:   "2022-01-01",
		StepDays:    3,
	}

	ctx := context.Background()
	result, err := publisher.Publish(ctx, dataset)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if !strings.HasPrefix(result.FolderPath, "snapshots/") {
		t.Errorf("unexpected folder path %s", result.FolderPath)
	}
	if result.IndexPath != result.FolderPath+"/index.html" {
		t.Errorf("unexpected index path %s", result.IndexPath)
	}

	// Core artifacts present in storage
	for _, name := range []string{"index.html", "styles.css", "stats.json", "narrative.md", "scatter.png", "timeseries.png", "mac.png"} {
		exists, err := store.ObjectExists(ctx, result.FolderPath+"/"+name)
		if err != nil {
			t.Fatalf("ObjectExists(%s) error = %v", name, err)
		}
		if !exists {
			t.Errorf("snapshot missing %s", name)
		}
	}

	// Snapshot page is self-contained: relative CSS, no controls
	index, err := store.GetObject(ctx, result.IndexPath)
	if err != nil {
		t.Fatalf("GetObject(index) error = %v", err)
	}
	if !strings.Contains(string(index), `href="styles.css"`) {
		t.Error("snapshot page should use relative CSS path")
	}
	if strings.Contains(string(index), "<form") {
		t.Error("snapshot page should not include filter controls")
	}

	// stats.json carries counts and seasonal breakdown
	statsData, err := store.GetObject(ctx, result.FolderPath+"/stats.json")
	if err != nil {
		t.Fatalf("GetObject(stats.json) error = %v", err)
	}
	var stats snapshotStats
	if err := json.Unmarshal(statsData, &stats); err != nil {
		t.Fatalf("stats.json is not valid JSON: %v", err)
	}
	if stats.RecordCount != len(records) {
		t.Errorf("stats record count = %d, want %d", stats.RecordCount, len(records))
	}
	if stats.OverallMAC == nil {
		t.Error("stats should include overall mean for non-empty dataset")
	}
	if len(stats.Seasons) != len(models.Seasons()) {
		t.Errorf("stats seasons = %d, want %d", len(stats.Seasons), len(models.Seasons()))
	}

	// Disabled narrator falls back to the statistical summary
	narrative, err := store.GetObject(ctx, result.FolderPath+"/narrative.md")
	if err != nil {
		t.Fatalf("GetObject(narrative.md) error = %v", err)
	}
	if !strings.Contains(string(narrative), "Seasonal Summary") {
		t.Error("narrative should contain the fallback summary")
	}
}

func TestPublishSnapshotEmptyDataset(t *testing.T) {
	publisher, store := newTestPublisher(t)

	dataset := &models.Dataset{
		Records:     []models.MeasurementRecord{},
		GeneratedAt: time.Now().UTC(),
		StartDate:   "2022-01-01",
		StepDays:    3,
	}

	ctx := context.Background()
	result, err := publisher.Publish(ctx, dataset)
	if err != nil {
		t.Fatalf("Publish() on empty dataset error = %v", err)
	}

	// PNGs are skipped with no data, core artifacts still written
	exists, err := store.ObjectExists(ctx, result.FolderPath+"/scatter.png")
	if err != nil {
		t.Fatalf("ObjectExists() error = %v", err)
	}
	if exists {
		t.Error("empty dataset should not produce PNG exports")
	}

	var stats snapshotStats
	statsData, err := store.GetObject(ctx, result.FolderPath+"/stats.json")
	if err != nil {
		t.Fatalf("GetObject(stats.json) error = %v", err)
	}
	if err := json.Unmarshal(statsData, &stats); err != nil {
		t.Fatalf("stats.json is not valid JSON: %v", err)
	}
	if stats.OverallMAC != nil {
		t.Error("overall mean must be omitted for an empty dataset")
	}
}
