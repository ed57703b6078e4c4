package charts

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bcviz/internal/analysis"
	"bcviz/internal/models"
)

// ErrInsufficientData is returned when a PNG render is requested for
// fewer than two data points; the raster renderer cannot draw a series
// from less. The interactive views handle the empty case themselves.
var ErrInsufficientData = errors.New("not enough data points to render chart")

var seasonDrawingColors = map[models.Season]drawing.Color{
	models.SeasonDry:    {R: 230, G: 126, B: 34, A: 255},
	models.SeasonBelg:   {R: 39, G: 174, B: 96, A: 255},
	models.SeasonKiremt: {R: 41, G: 128, B: 185, A: 255},
}

// RenderPNG draws the selected view as a PNG for snapshot export and
// the /charts/{view}.png endpoint.
func (g *Generator) RenderPNG(w io.Writer, view models.ViewMode, records []models.MeasurementRecord) error {
	if len(records) < 2 {
		return ErrInsufficientData
	}
	switch view {
	case models.ViewTimeSeries:
		return g.renderTimeSeriesPNG(w, records)
	case models.ViewMACAnalysis:
		return g.renderMACPNG(w, records)
	case models.ViewScatter:
		return g.renderScatterPNG(w, records)
	default:
		return fmt.Errorf("unknown view mode %q", view)
	}
}

func (g *Generator) renderScatterPNG(w io.Writer, records []models.MeasurementRecord) error {
	var series []chart.Series
	maxEC := 0.0

	for _, season := range models.Seasons() {
		var xs, ys []float64
		for _, r := range records {
			if r.Season != season {
				continue
			}
			xs = append(xs, r.ECFtir)
			ys = append(ys, r.Fabs)
			if r.ECFtir > maxEC {
				maxEC = r.ECFtir
			}
		}
		if len(xs) < 2 {
			// go-chart cannot draw single-point series; skip them.
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name: string(season),
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    seasonDrawingColors[season],
			},
			XValues: xs,
			YValues: ys,
		})
	}

	if len(series) == 0 {
		return ErrInsufficientData
	}

	series = append(series, chart.ContinuousSeries{
		Name: "MAC = 10",
		Style: chart.Style{
			StrokeColor:     drawing.Color{R: 127, G: 140, B: 141, A: 255},
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
		XValues: []float64{0, maxEC},
		YValues: []float64{0, maxEC * referenceMAC},
	})

	graph := chart.Chart{
		Title: "Fabs vs FTIR EC by Season",
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 70, Right: 20, Bottom: 40},
		},
		Height: 450,
		Width:  700,
		XAxis: chart.XAxis{
			Name:      "FTIR EC (ug/m3)",
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
		},
		YAxis: chart.YAxis{
			Name:      "Fabs (1/Mm)",
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
		},
		Series: series,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render scatter chart: %w", err)
	}
	return nil
}

func (g *Generator) renderTimeSeriesPNG(w io.Writer, records []models.MeasurementRecord) error {
	sorted := analysis.SortByTimestamp(records)

	xValues := make([]time.Time, len(sorted))
	bccValues := make([]float64, len(sorted))
	ecValues := make([]float64, len(sorted))
	for i, r := range sorted {
		xValues[i] = r.Time()
		bccValues[i] = r.RedBCc
		ecValues[i] = r.ECFtir
	}

	graph := chart.Chart{
		Title: "Concentration Time Series",
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 70, Right: 20, Bottom: 60},
		},
		Height: 400,
		Width:  700,
		XAxis: chart.XAxis{
			Name:      "Date",
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 9},
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(time.Time); ok {
					return t.Format("2006-01-02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:      "Concentration (ug/m3)",
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Red BCc",
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 192, G: 57, B: 43, A: 255},
					StrokeWidth: 2,
				},
				XValues: xValues,
				YValues: bccValues,
			},
			chart.TimeSeries{
				Name: "FTIR EC",
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 142, G: 68, B: 173, A: 255},
					StrokeWidth: 2,
				},
				XValues: xValues,
				YValues: ecValues,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render time series chart: %w", err)
	}
	return nil
}

func (g *Generator) renderMACPNG(w io.Writer, records []models.MeasurementRecord) error {
	sorted := analysis.SortByTimestamp(records)

	xValues := make([]time.Time, len(sorted))
	macValues := make([]float64, len(sorted))
	for i, r := range sorted {
		xValues[i] = r.Time()
		macValues[i] = r.MAC
	}

	graph := chart.Chart{
		Title: "MAC Trend",
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 70, Right: 20, Bottom: 60},
		},
		Height: 400,
		Width:  700,
		XAxis: chart.XAxis{
			Name:      "Date",
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 9},
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(time.Time); ok {
					return t.Format("2006-01-02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:      "MAC (m2/g)",
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "MAC",
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 44, G: 62, B: 80, A: 255},
					StrokeWidth: 2,
					DotColor:    drawing.Color{R: 44, G: 62, B: 80, A: 255},
					DotWidth:    3,
				},
				XValues: xValues,
				YValues: macValues,
			},
		},
	}

	// Overlay the overall mean as a dashed reference line.
	if mean, ok := analysis.OverallMean(sorted); ok {
		minTime := xValues[0].Unix()
		maxTime := xValues[len(xValues)-1].Unix()
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name: fmt.Sprintf("Mean MAC (%.2f)", mean),
			Style: chart.Style{
				StrokeColor:     drawing.ColorRed,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
			XValues: []float64{float64(minTime), float64(maxTime)},
			YValues: []float64{mean, mean},
		})
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render MAC chart: %w", err)
	}
	return nil
}
