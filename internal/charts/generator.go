package charts

import (
	"fmt"

	"bcviz/internal/analysis"
	"bcviz/internal/models"
)

// Generator builds the dashboard's chart snippets. assetURL is the
// script source for the ECharts bundle (cached copy or CDN).
type Generator struct {
	assetURL string
}

// NewGenerator creates a chart generator.
func NewGenerator(assetURL string) *Generator {
	return &Generator{assetURL: assetURL}
}

// ViewSnippet builds the main chart for the selected view over the
// filtered records. Empty record sets produce a chart with no data
// points rather than an error.
func (g *Generator) ViewSnippet(view models.ViewMode, records []models.MeasurementRecord) (Snippet, error) {
	switch view {
	case models.ViewTimeSeries:
		return g.timeSeriesSnippet(records)
	case models.ViewMACAnalysis:
		return g.macTrendSnippet(records)
	case models.ViewScatter:
		return g.scatterSnippet(records)
	default:
		return Snippet{}, fmt.Errorf("unknown view mode %q", view)
	}
}

// DistributionSnippet builds the season-distribution pie for the
// summary panel. Shares always cover the whole dataset.
func (g *Generator) DistributionSnippet(shares []analysis.SeasonShare) (Snippet, error) {
	return g.seasonDistributionSnippet(shares)
}

func seasonColor(season models.Season) string {
	switch season {
	case models.SeasonDry:
		return colorDry
	case models.SeasonBelg:
		return colorBelg
	default:
		return colorKiremt
	}
}
