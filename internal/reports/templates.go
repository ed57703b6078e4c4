package reports

import (
	"fmt"
	"os"
	"path/filepath"
)

// TemplateLoader handles loading the dashboard template and CSS styles
type TemplateLoader struct{}

// NewTemplateLoader creates a new template loader
func NewTemplateLoader() *TemplateLoader {
	return &TemplateLoader{}
}

// LoadDashboardTemplate loads the dashboard HTML template from file
func (t *TemplateLoader) LoadDashboardTemplate() (string, error) {
	return t.load("dashboard.html")
}

// LoadCSSStyles loads the dashboard CSS from file
func (t *TemplateLoader) LoadCSSStyles() (string, error) {
	return t.load("styles.css")
}

// load reads a template file, trying paths for both the repo root and
// package directories (tests run from the latter).
func (t *TemplateLoader) load(name string) (string, error) {
	candidates := []string{
		filepath.Join("internal", "templates", name),
		filepath.Join("..", "templates", name),
		filepath.Join("..", "..", "internal", "templates", name),
	}
	for _, path := range candidates {
		if content, err := os.ReadFile(path); err == nil {
			return string(content), nil
		}
	}
	return "", fmt.Errorf("template %s not found in any expected location", name)
}
