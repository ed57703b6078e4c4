package charts

import (
	"encoding/json"
	"fmt"
)

// Snippet represents an embeddable ECharts chart fragment.
// Div contains a single root <div id="..."></div>, Script the
// <script>...</script> block that initializes the chart in that div, and
// HTML the complete fragment (asset include + div + script) for template
// substitution.
type Snippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// Season series colors, shared by the interactive and PNG renderers.
const (
	colorDry    = "#e67e22"
	colorBelg   = "#27ae60"
	colorKiremt = "#2980b9"
)

// snippet assembles a Snippet from an ECharts option map.
func (g *Generator) snippet(id, title string, option map[string]interface{}, heightPx int) (Snippet, error) {
	optJSON, err := json.Marshal(option)
	if err != nil {
		return Snippet{}, fmt.Errorf("failed to marshal chart option: %w", err)
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:%dpx;\"></div>", id, heightPx)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`, id, string(optJSON))

	completeHTML := fmt.Sprintf(`<script src="%s"></script>
<div class="chart-container">
	<h3>%s</h3>
	%s
</div>
%s`, g.assetURL, title, div, script)

	return Snippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}, nil
}
