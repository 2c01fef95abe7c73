package adapter

import (
	"embed"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.tmpl
var formatterTemplateFS embed.FS

var (
	formatterTemplates *template.Template
	formatterOnce      sync.Once
	formatterErr       error
)

type linesTemplateData struct {
	Prefix string
	Lines  []string
}

func executeFormatterTemplate(name string, data any) (string, error) {
	formatterOnce.Do(func() {
		formatterTemplates, formatterErr = template.New("formatter").ParseFS(formatterTemplateFS, "templates/*.tmpl")
	})

	if formatterErr != nil {
		return "", formatterErr
	}

	var builder strings.Builder
	if err := formatterTemplates.ExecuteTemplate(&builder, name, data); err != nil {
		return "", err
	}

	return strings.TrimRight(builder.String(), "\n"), nil
}
