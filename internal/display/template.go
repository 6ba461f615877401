package display

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

// Template is a parsed text template with sprig functions available.
type Template struct {
	raw  string
	tmpl *template.Template
}

// ParseTemplate compiles a template string.
func ParseTemplate(tmplStr string) (*Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &Template{raw: tmplStr, tmpl: tmpl}, nil
}

func (t *Template) String() string {
	return t.raw
}

// Execute expands the template using the provided data.
// The data can be any struct - templates access fields via {{ .FieldName }}.
func (t *Template) Execute(data any) (string, error) {
	// Quick check: if no template markers, return as-is
	if !strings.Contains(t.raw, "{{") {
		return t.raw, nil
	}

	var buf bytes.Buffer
	err := t.tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
