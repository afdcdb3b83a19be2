package web

import (
	"html/template"
	"testing"
)

func TestPagesParse(t *testing.T) {
	funcs := template.FuncMap{
		"money":            func(float64) string { return "" },
		"formatSize":       func(float64, float64) string { return "" },
		"itemTitle":        func(any) string { return "" },
		"servicesText":     func(any) string { return "" },
		"humanizeDelivery": func(string) string { return "" },
		"formatNumber":     func(float64) string { return "" },
		"inc":              func(i int) int { return i + 1 },
	}
	pages := []string{
		"login.html",
		"manager_form.html",
		"manager_preview.html",
		"manager_pdf_ready.html",
		"history_list.html",
		"history_view.html",
	}
	for _, page := range pages {
		tmpl, err := Page(page, funcs)
		if err != nil {
			t.Fatalf("parse %s: %v", page, err)
		}
		if tmpl.Lookup("content") == nil {
			t.Fatalf("%s does not define content", page)
		}
	}
}
