package charts

import (
	"bcviz/internal/models"
)

// referenceMAC is the fixed MAC guide line drawn on the scatter view,
// in m²/g. Points above the line absorb more per unit EC than the guide.
const referenceMAC = 10.0

// scatterSnippet builds the Fabs-vs-EC scatter view: one series per
// season plus a fixed MAC reference line through the origin.
func (g *Generator) scatterSnippet(records []models.MeasurementRecord) (Snippet, error) {
	id := "chart-scatter"

	bySeasonX := map[models.Season][][]float64{}
	maxEC := 0.0
	for _, r := range records {
		bySeasonX[r.Season] = append(bySeasonX[r.Season], []float64{r.ECFtir, r.Fabs})
		if r.ECFtir > maxEC {
			maxEC = r.ECFtir
		}
	}
	if maxEC == 0 {
		maxEC = 1 // keeps the reference line drawable on an empty chart
	}

	series := make([]interface{}, 0, 4)
	legend := make([]string, 0, 4)
	for _, season := range models.Seasons() {
		points := bySeasonX[season]
		if points == nil {
			points = [][]float64{}
		}
		legend = append(legend, string(season))
		series = append(series, map[string]interface{}{
			"name":       string(season),
			"type":       "scatter",
			"symbolSize": 9,
			"itemStyle":  map[string]interface{}{"color": seasonColor(season)},
			"data":       points,
		})
	}

	refName := "MAC = 10 m²/g"
	legend = append(legend, refName)
	series = append(series, map[string]interface{}{
		"name":       refName,
		"type":       "line",
		"showSymbol": false,
		"lineStyle":  map[string]interface{}{"width": 2, "type": "dashed", "color": "#7f8c8d"},
		"data":       [][]float64{{0, 0}, {maxEC, maxEC * referenceMAC}},
	})

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{
			"trigger": "item",
		},
		"grid": map[string]interface{}{"left": "8%", "right": "6%", "bottom": "14%", "containLabel": true},
		"xAxis": map[string]interface{}{
			"type": "value",
			"name": "FTIR EC (µg/m³)",
		},
		"yAxis": map[string]interface{}{
			"type": "value",
			"name": "Fabs (Mm⁻¹)",
		},
		"series": series,
		"legend": map[string]interface{}{"data": legend, "bottom": 0},
	}

	return g.snippet(id, "Fabs vs FTIR EC by Season", option, 420)
}
