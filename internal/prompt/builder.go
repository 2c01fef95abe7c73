package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sync"
	"text/template"
)

//go:embed templates/*.yaml
var templateFS embed.FS

type TemplateName string

const (
	TemplateTransferParser TemplateName = "transfer_parser.yaml"
)

var allTemplates = []TemplateName{TemplateTransferParser}

type PromptBuilder struct {
	mu        sync.RWMutex
	templates map[TemplateName]*template.Template
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		templates: make(map[TemplateName]*template.Template),
	}
}

// Preload parses every embedded template so a broken file fails at startup.
func (pb *PromptBuilder) Preload() error {
	for _, name := range allTemplates {
		if _, err := pb.getTemplate(name); err != nil {
			return err
		}
	}
	return nil
}

func (pb *PromptBuilder) Render(name TemplateName, data any) (string, error) {
	tmpl, err := pb.getTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}

	return buf.String(), nil
}

// TransferParser renders the transfer parser prompt. On a template error it
// returns the built-in fallback together with the error.
func (pb *PromptBuilder) TransferParser(data TransferParserData) (string, error) {
	text, err := pb.Render(TemplateTransferParser, data)
	if err != nil {
		return FallbackTransferParserPrompt(data), err
	}
	return text, nil
}

func (pb *PromptBuilder) getTemplate(name TemplateName) (*template.Template, error) {
	pb.mu.RLock()
	if tmpl, ok := pb.templates[name]; ok {
		pb.mu.RUnlock()
		return tmpl, nil
	}
	pb.mu.RUnlock()

	content, err := templateFS.ReadFile(path.Join("templates", string(name)))
	if err != nil {
		return nil, fmt.Errorf("load prompt template %s: %w", name, err)
	}

	tmpl, err := template.New(string(name)).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %s: %w", name, err)
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.templates[name] = tmpl

	return tmpl, nil
}
