package charts

import (
	"fmt"

	"bcviz/internal/analysis"
)

// seasonDistributionSnippet builds the summary-panel pie showing how the
// whole dataset splits across seasons.
func (g *Generator) seasonDistributionSnippet(shares []analysis.SeasonShare) (Snippet, error) {
	id := "chart-season-distribution"

	data := make([]interface{}, 0, len(shares))
	for _, s := range shares {
		data = append(data, map[string]interface{}{
			"name":      string(s.Season),
			"value":     s.Count,
			"itemStyle": map[string]interface{}{"color": seasonColor(s.Season)},
		})
	}

	option := map[string]interface{}{
		"tooltip": map[string]interface{}{
			"trigger":   "item",
			"formatter": "{b}: {c} records ({d}%)",
		},
		"series": []interface{}{
			map[string]interface{}{
				"name":   "Season Distribution",
				"type":   "pie",
				"radius": []string{"35%", "65%"},
				"label": map[string]interface{}{
					"formatter": "{b}\n{d}%",
				},
				"data": data,
			},
		},
		"legend": map[string]interface{}{"bottom": 0},
	}

	title := fmt.Sprintf("Season Distribution (%d records)", totalCount(shares))
	return g.snippet(id, title, option, 360)
}

func totalCount(shares []analysis.SeasonShare) int {
	total := 0
	for _, s := range shares {
		total += s.Count
	}
	return total
}
