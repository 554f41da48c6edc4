// Package view holds the embedded page templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/noah-isme/advisor-assessment/pkg/thaifmt"
)

//go:embed templates/*.html
var files embed.FS

// FuncMap exposes the Thai formatting helpers to templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatRound": thaifmt.FormatRoundID,
		"thaiDate":    thaifmt.FormatDate,
		"roundStatus": func(end time.Time) string { return thaifmt.RoundStatus(end, time.Now()) },
		"joinNames":   thaifmt.JoinNames,
		"score":       func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"ratingScale": func() []int { return []int{1, 2, 3, 4, 5} },
	}
}

// Load parses every embedded template.
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Must is Load for program start-up.
func Must() *template.Template {
	tmpl, err := Load()
	if err != nil {
		panic(err)
	}
	return tmpl
}
