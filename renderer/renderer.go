// Package renderer renders settlement statements to markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderStatement renders the Statement struct to a markdown string.
func RenderStatement(s *Statement) string {
	partials := map[string]string{
		"statement_title":      "statement_title.md",
		"statement_expenses":   "statement_expenses.md",
		"statement_balances":   "statement_balances.md",
		"statement_settlement": "statement_settlement.md",
	}
	return renderTemplate("statement", "statement.md", partials, s)
}

// RenderBalances renders only the balances section of a statement.
func RenderBalances(s *Statement) string {
	return renderTemplate("balances", "statement_balances.md", nil, s)
}

// RenderSettlement renders only the settlement section of a statement.
func RenderSettlement(s *Statement) string {
	return renderTemplate("settlement", "statement_settlement.md", nil, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
