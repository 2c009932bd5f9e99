package widget

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"gopkg.in/yaml.v3"
)

// Container is a named mount point inside a host page. A container holds at
// most one mounted widget form at a time.
type Container struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`

	form *Form
}

// Mounted reports whether a widget form is currently attached.
func (c *Container) Mounted() bool {
	return c.form != nil
}

func (c *Container) attach(f *Form) {
	c.form = f
}

func (c *Container) detach() {
	c.form = nil
}

// Page is the host document the widget mounts into. It declares the
// containers available to widgets by id.
type Page struct {
	Title      string       `yaml:"title"`
	Containers []*Container `yaml:"containers"`
}

// DefaultPage returns the built-in host page with the default container.
func DefaultPage() *Page {
	return &Page{
		Title: "Request Page Verification",
		Containers: []*Container{
			{ID: "verified-badge-container", Label: "Verification request"},
		},
	}
}

// LoadPage reads a host page definition from a YAML file.
func LoadPage(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page file: %w", err)
	}

	var p Page
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse page file %s: %w", path, err)
	}
	if len(p.Containers) == 0 {
		return nil, fmt.Errorf("page file %s declares no containers", path)
	}
	return &p, nil
}

// Container returns the container with the given id, or nil when the page
// does not declare one.
func (p *Page) Container(id string) *Container {
	for _, c := range p.Containers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

const pageTemplateText = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
</head>
<body>
{{- range .Containers }}
  <div id="{{ .ID }}">
{{- if .Mounted }}
{{ .FormHTML }}
{{- end }}
  </div>
{{- end }}
</body>
</html>`

var pageTemplate = template.Must(template.New("vrw-page").Parse(pageTemplateText))

type containerView struct {
	ID       string
	Mounted  bool
	FormHTML template.HTML
}

type pageView struct {
	Title      string
	Containers []containerView
}

// RenderHTML renders the host page with any mounted widget forms in place.
func (p *Page) RenderHTML() (string, error) {
	view := pageView{Title: p.Title}
	for _, c := range p.Containers {
		cv := containerView{ID: c.ID, Mounted: c.Mounted()}
		if c.form != nil {
			html, err := c.form.RenderHTML()
			if err != nil {
				return "", err
			}
			cv.FormHTML = html
		}
		view.Containers = append(view.Containers, cv)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}
