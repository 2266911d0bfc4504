// Package renderer turns kest reports into markdown for humans, and audit
// records into tabular exports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/kest"
	"github.com/etnz/kest/date"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

// funcs are the formatting helpers available to all templates.
var funcs = template.FuncMap{
	"amount": func(m kest.Money) string { return m.StringFixed(2) },
	"price":  func(m kest.Money) string { return m.StringFixed(4) },
	"signed": signed,
}

// signed formats an amount to the cent with an explicit sign.
func signed(m kest.Money) string {
	if m.IsPositive() {
		return "+" + m.StringFixed(2)
	}
	return m.StringFixed(2)
}

// AuditMarkdown renders the report of a security: the position over the
// year, one block per audit record, and the E1kv figures.
func AuditMarkdown(report *kest.Report) string {
	partials := map[string]string{
		"audit_record":  "audit_record.md",
		"audit_summary": "audit_summary.md",
	}
	return renderTemplate("audit", "audit.md", partials, report)
}

// SummaryMarkdown renders only the E1kv figures, for instance of the sum of
// several securities.
func SummaryMarkdown(summary kest.Summary) string {
	return renderTemplate("summary", "audit_summary.md", nil, summary)
}

// EventsMarkdown renders a table of normalized events.
func EventsMarkdown(symbol string, events []kest.Event) string {
	data := struct {
		Symbol string
		Events []kest.Event
	}{symbol, events}
	return renderTemplate("events", "events.md", nil, data)
}

type dailyRate struct {
	Date date.Date
	Rate decimal.Decimal
}

// RatesMarkdown renders a table of the rates published in a rate table.
func RatesMarkdown(t *kest.RateTable) string {
	data := struct {
		Range date.Range
		Rates []dailyRate
	}{Range: t.Range()}
	for on, rate := range t.Rates() {
		data.Rates = append(data.Rates, dailyRate{on, rate})
	}
	return renderTemplate("rates", "rates.md", nil, data)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
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
