package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"bcviz/internal/analysis"
	"bcviz/internal/models"
)

// RenderStandalonePage renders the selected view as a self-contained
// go-echarts HTML page, used by the /chart endpoint for embedding a
// single chart outside the dashboard.
func (g *Generator) RenderStandalonePage(w io.Writer, view models.ViewMode, records []models.MeasurementRecord) error {
	switch view {
	case models.ViewTimeSeries:
		return g.renderTimeSeriesPage(w, records)
	case models.ViewMACAnalysis:
		return g.renderMACPage(w, records)
	case models.ViewScatter:
		return g.renderScatterPage(w, records)
	default:
		return fmt.Errorf("unknown view mode %q", view)
	}
}

func (g *Generator) renderScatterPage(w io.Writer, records []models.MeasurementRecord) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "900px",
			Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Fabs vs FTIR EC",
			Subtitle: "Filter absorption against elemental carbon, by season",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "FTIR EC (µg/m³)",
			Type: "value",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Fabs (Mm⁻¹)",
			Type: "value",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true,
		}),
	)

	for _, season := range models.Seasons() {
		var data []opts.ScatterData
		for _, r := range records {
			if r.Season != season {
				continue
			}
			data = append(data, opts.ScatterData{
				Value:      []interface{}{r.ECFtir, r.Fabs},
				SymbolSize: 9,
			})
		}
		scatter.AddSeries(string(season), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: seasonColor(season)}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render scatter page: %w", err)
	}
	return nil
}

func (g *Generator) renderTimeSeriesPage(w io.Writer, records []models.MeasurementRecord) error {
	sorted := analysis.SortByTimestamp(records)

	xAxis := make([]string, len(sorted))
	bccData := make([]opts.LineData, len(sorted))
	ecData := make([]opts.LineData, len(sorted))
	fabsData := make([]opts.LineData, len(sorted))
	for i, r := range sorted {
		xAxis[i] = r.Date
		bccData[i] = opts.LineData{Value: r.RedBCc}
		ecData[i] = opts.LineData{Value: r.ECFtir}
		fabsData[i] = opts.LineData{Value: r.Fabs}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "900px",
			Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Concentration Time Series",
			Subtitle: "Red BCc, FTIR EC and Fabs over the sampling period",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Date",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Value",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true,
		}),
	)

	line.SetXAxis(xAxis).
		AddSeries("Red BCc", bccData).
		AddSeries("FTIR EC", ecData).
		AddSeries("Fabs", fabsData).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: true}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render time series page: %w", err)
	}
	return nil
}

func (g *Generator) renderMACPage(w io.Writer, records []models.MeasurementRecord) error {
	sorted := analysis.SortByTimestamp(records)

	xAxis := make([]string, len(sorted))
	macData := make([]opts.LineData, len(sorted))
	for i, r := range sorted {
		xAxis[i] = r.Date
		macData[i] = opts.LineData{Value: r.MAC}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "900px",
			Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "MAC Trend",
			Subtitle: "Mass absorption cross-section (Fabs / FTIR EC)",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Date",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "MAC (m²/g)",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true,
		}),
	)

	line.SetXAxis(xAxis).AddSeries("MAC", macData)

	if mean, ok := analysis.OverallMean(sorted); ok {
		meanData := make([]opts.LineData, len(sorted))
		for i := range meanData {
			meanData[i] = opts.LineData{Value: mean}
		}
		line.AddSeries(fmt.Sprintf("Mean MAC (%.2f)", mean), meanData)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render MAC page: %w", err)
	}
	return nil
}
