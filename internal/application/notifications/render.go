package notifications

import (
	"fmt"
	"strings"
	"text/template"
)

// Default message bodies. They are overridable from config.
const (
	DefaultNewTemplate = `Nueva publicación pendiente de revisión
{{.Title}} ({{.Category}})
Precio: {{price .Price}} {{.Currency}}
Guía: {{.OwnerName}}{{if .OwnerContact}} · {{.OwnerContact}}{{end}}
{{if .ReviewURL}}Revisar: {{.ReviewURL}}{{end}}`

	DefaultUpdatedTemplate = `Publicación actualizada, requiere nueva revisión
{{.Title}} ({{.Category}})
Precio: {{price .Price}} {{.Currency}}
Guía: {{.OwnerName}}{{if .OwnerContact}} · {{.OwnerContact}}{{end}}
{{if .ReviewURL}}Revisar: {{.ReviewURL}}{{end}}`
)

var subjects = map[Kind]string{
	NewListing:     "Nueva publicación: %s",
	UpdatedListing: "Publicación actualizada: %s",
}

// Renderer turns events into plain-text messages.
type Renderer struct {
	byKind map[Kind]*template.Template
}

var funcs = template.FuncMap{
	"price": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

// NewRenderer parses the templates. Empty values fall back to the defaults.
func NewRenderer(newTmpl, updatedTmpl string) (*Renderer, error) {
	if strings.TrimSpace(newTmpl) == "" {
		newTmpl = DefaultNewTemplate
	}
	if strings.TrimSpace(updatedTmpl) == "" {
		updatedTmpl = DefaultUpdatedTemplate
	}
	r := &Renderer{byKind: map[Kind]*template.Template{}}
	for kind, src := range map[Kind]string{NewListing: newTmpl, UpdatedListing: updatedTmpl} {
		t, err := template.New(string(kind)).Funcs(funcs).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		r.byKind[kind] = t
	}
	return r, nil
}

// Render returns subject and body for e.
func (r *Renderer) Render(e Event) (string, string, error) {
	t, ok := r.byKind[e.Kind]
	if !ok {
		return "", "", fmt.Errorf("no template for %q", e.Kind)
	}
	var b strings.Builder
	if err := t.Execute(&b, e); err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjects[e.Kind], e.Title), strings.TrimSpace(b.String()), nil
}
