package charts

import (
	"bcviz/internal/analysis"
	"bcviz/internal/models"
)

// timeSeriesSnippet builds the dual-axis concentration time series:
// RedBCc and FTIR EC on the left axis, Fabs on the right. Records are
// sorted chronologically first since filtered subsequences do not
// guarantee order.
func (g *Generator) timeSeriesSnippet(records []models.MeasurementRecord) (Snippet, error) {
	id := "chart-timeseries"

	sorted := analysis.SortByTimestamp(records)
	xdata := make([]string, len(sorted))
	bccValues := make([]float64, len(sorted))
	ecValues := make([]float64, len(sorted))
	fabsValues := make([]float64, len(sorted))
	for i, r := range sorted {
		xdata[i] = r.Date
		bccValues[i] = r.RedBCc
		ecValues[i] = r.ECFtir
		fabsValues[i] = r.Fabs
	}

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{
			"trigger":     "axis",
			"axisPointer": map[string]interface{}{"type": "cross"},
		},
		"grid": map[string]interface{}{"left": "8%", "right": "8%", "bottom": "15%", "containLabel": true},
		"xAxis": map[string]interface{}{
			"type":      "category",
			"data":      xdata,
			"axisLabel": map[string]interface{}{"rotate": 45},
		},
		"yAxis": []interface{}{
			map[string]interface{}{
				"type":     "value",
				"name":     "Concentration (µg/m³)",
				"position": "left",
			},
			map[string]interface{}{
				"type":     "value",
				"name":     "Fabs (Mm⁻¹)",
				"position": "right",
			},
		},
		"series": []interface{}{
			map[string]interface{}{
				"name":       "Red BCc",
				"type":       "line",
				"yAxisIndex": 0,
				"showSymbol": true,
				"symbolSize": 5,
				"lineStyle":  map[string]interface{}{"width": 2, "color": "#c0392b"},
				"itemStyle":  map[string]interface{}{"color": "#c0392b"},
				"data":       bccValues,
			},
			map[string]interface{}{
				"name":       "FTIR EC",
				"type":       "line",
				"yAxisIndex": 0,
				"showSymbol": true,
				"symbolSize": 5,
				"lineStyle":  map[string]interface{}{"width": 2, "color": "#8e44ad"},
				"itemStyle":  map[string]interface{}{"color": "#8e44ad"},
				"data":       ecValues,
			},
			map[string]interface{}{
				"name":       "Fabs",
				"type":       "line",
				"yAxisIndex": 1,
				"showSymbol": true,
				"symbolSize": 5,
				"lineStyle":  map[string]interface{}{"width": 2, "color": "#16a085"},
				"itemStyle":  map[string]interface{}{"color": "#16a085"},
				"data":       fabsValues,
			},
		},
		"legend": map[string]interface{}{
			"data":   []string{"Red BCc", "FTIR EC", "Fabs"},
			"bottom": 0,
		},
	}

	return g.snippet(id, "Concentration Time Series", option, 420)
}
