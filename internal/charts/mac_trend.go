package charts

import (
	"fmt"

	"bcviz/internal/analysis"
	"bcviz/internal/models"
)

// macTrendSnippet builds the MAC-over-time view with a constant
// reference line at the overall mean MAC. The reference line is omitted
// when the mean is undefined (no records).
func (g *Generator) macTrendSnippet(records []models.MeasurementRecord) (Snippet, error) {
	id := "chart-mac-trend"

	sorted := analysis.SortByTimestamp(records)
	xdata := make([]string, len(sorted))
	macValues := make([]float64, len(sorted))
	for i, r := range sorted {
		xdata[i] = r.Date
		macValues[i] = r.MAC
	}

	series := []interface{}{
		map[string]interface{}{
			"name":       "MAC",
			"type":       "line",
			"showSymbol": true,
			"symbolSize": 6,
			"lineStyle":  map[string]interface{}{"width": 2, "color": "#2c3e50"},
			"itemStyle":  map[string]interface{}{"color": "#2c3e50"},
			"data":       macValues,
		},
	}
	legend := []string{"MAC"}

	if mean, ok := analysis.OverallMean(sorted); ok {
		meanLine := make([]float64, len(sorted))
		for i := range meanLine {
			meanLine[i] = mean
		}
		name := fmt.Sprintf("Mean MAC (%.2f)", mean)
		legend = append(legend, name)
		series = append(series, map[string]interface{}{
			"name":       name,
			"type":       "line",
			"showSymbol": false,
			"lineStyle":  map[string]interface{}{"width": 2, "type": "dashed", "color": "#e74c3c"},
			"itemStyle":  map[string]interface{}{"color": "#e74c3c"},
			"data":       meanLine,
		})
	}

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{
			"trigger":     "axis",
			"axisPointer": map[string]interface{}{"type": "cross"},
		},
		"grid": map[string]interface{}{"left": "8%", "right": "6%", "bottom": "15%", "containLabel": true},
		"xAxis": map[string]interface{}{
			"type":      "category",
			"data":      xdata,
			"axisLabel": map[string]interface{}{"rotate": 45},
		},
		"yAxis": map[string]interface{}{
			"type": "value",
			"name": "MAC (m²/g)",
		},
		"series": series,
		"legend": map[string]interface{}{"data": legend, "bottom": 0},
	}

	return g.snippet(id, "MAC Trend (Fabs / FTIR EC)", option, 420)
}
