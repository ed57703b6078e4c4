package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"bcviz/internal/analysis"
	"bcviz/internal/config"
	"bcviz/internal/models"
)

// HTMLBuilder assembles dashboard pages with goldmark and html/template
type HTMLBuilder struct {
	templateLoader *TemplateLoader
	goldmark       goldmark.Markdown
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	// Configure goldmark with extensions
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(), // chart snippets carry raw HTML
		),
	)

	return &HTMLBuilder{
		templateLoader: NewTemplateLoader(),
		goldmark:       md,
	}
}

// Option is a select-box entry on the dashboard controls
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// TemplateData is the data structure behind the dashboard template
type TemplateData struct {
	Title         string
	GeneratedAt   string
	Version       string
	CSSFilePath   string
	ShowControls  bool
	ViewOptions   []Option
	SeasonOptions []Option
	Charts        []template.HTML
	SummaryTable  template.HTML
	Narrative     template.HTML
}

// PageParams describes one dashboard page build. Records is the full
// unfiltered dataset; the summary panel is always computed from it.
type PageParams struct {
	View              models.ViewMode
	Season            models.SeasonFilter
	ChartHTML         []string
	Records           []models.MeasurementRecord
	NarrativeMarkdown string
	CSSFilePath       string
	ShowControls      bool
}

// BuildDashboard renders a complete dashboard HTML document.
func (h *HTMLBuilder) BuildDashboard(params PageParams) (string, error) {
	charts := make([]template.HTML, 0, len(params.ChartHTML))
	for _, c := range params.ChartHTML {
		charts = append(charts, template.HTML(c))
	}

	var narrative template.HTML
	if params.NarrativeMarkdown != "" {
		narrativeHTML, err := h.ConvertMarkdownToHTML(params.NarrativeMarkdown)
		if err != nil {
			return "", err
		}
		narrative = template.HTML(narrativeHTML)
	}

	cssPath := params.CSSFilePath
	if cssPath == "" {
		cssPath = "/styles.css"
	}

	data := TemplateData{
		Title:         "Black Carbon Dashboard",
		GeneratedAt:   time.Now().UTC().Format("2006-01-02 15:04:05 UTC"),
		Version:       config.GetVersion(),
		CSSFilePath:   cssPath,
		ShowControls:  params.ShowControls,
		ViewOptions:   viewOptions(params.View),
		SeasonOptions: seasonOptions(params.Season),
		Charts:        charts,
		SummaryTable:  h.generateSummaryTable(params.Records),
		Narrative:     narrative,
	}

	return h.executeTemplate(data)
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// LoadStaticCSS returns the dashboard CSS content
func (h *HTMLBuilder) LoadStaticCSS() (string, error) {
	cssContent, err := h.templateLoader.LoadCSSStyles()
	if err != nil {
		return "", fmt.Errorf("failed to load CSS: %w", err)
	}
	return cssContent, nil
}

// executeTemplate executes the dashboard template with the provided data
func (h *HTMLBuilder) executeTemplate(data TemplateData) (string, error) {
	htmlTemplate, err := h.templateLoader.LoadDashboardTemplate()
	if err != nil {
		return "", fmt.Errorf("failed to load dashboard template: %w", err)
	}

	tmpl, err := template.New("dashboard").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// generateSummaryTable creates the seasonal summary table. Rows cover
// every season; seasons with no records show a placeholder mean. The
// overall row shows a placeholder when the mean is undefined.
func (h *HTMLBuilder) generateSummaryTable(records []models.MeasurementRecord) template.HTML {
	stats := analysis.SeasonalStats(records)
	shares := analysis.Distribution(records, models.Seasons())

	var buf strings.Builder
	buf.WriteString(`<table class="summary-table">`)
	buf.WriteString(`<thead><tr><th>Season</th><th>Records</th><th>Share</th><th>Mean MAC (m&sup2;/g)</th></tr></thead>`)
	buf.WriteString(`<tbody>`)

	for _, share := range shares {
		meanCell := "&mdash;"
		if stat, ok := stats[share.Season]; ok {
			meanCell = fmt.Sprintf("%.2f", stat.MeanMAC)
		}
		buf.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%d</td><td>%.1f%%</td><td>%s</td></tr>`,
			template.HTMLEscapeString(string(share.Season)), share.Count, share.Percentage, meanCell))
	}

	overallCell := "&mdash;"
	overallShare := 0.0
	if mean, ok := analysis.OverallMean(records); ok {
		overallCell = fmt.Sprintf("%.2f", mean)
		overallShare = 100.0
	}
	buf.WriteString(fmt.Sprintf(`<tr class="overall-row"><td>All Seasons</td><td>%d</td><td>%.1f%%</td><td>%s</td></tr>`,
		len(records), overallShare, overallCell))

	buf.WriteString(`</tbody></table>`)
	return template.HTML(buf.String())
}

func viewOptions(selected models.ViewMode) []Option {
	views := []models.ViewMode{models.ViewScatter, models.ViewTimeSeries, models.ViewMACAnalysis}
	options := make([]Option, 0, len(views))
	for _, v := range views {
		options = append(options, Option{
			Value:    string(v),
			Label:    v.Title(),
			Selected: v == selected,
		})
	}
	return options
}

func seasonOptions(selected models.SeasonFilter) []Option {
	filters := []models.SeasonFilter{models.FilterAll, models.FilterDry, models.FilterBelg, models.FilterKiremt}
	options := make([]Option, 0, len(filters))
	for _, f := range filters {
		options = append(options, Option{
			Value:    string(f),
			Label:    f.Title(),
			Selected: f == selected,
		})
	}
	return options
}
