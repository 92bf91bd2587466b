package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

var funcMap = template.FuncMap{
	"usd": usd,
	"abs": func(n int64) int64 {
		if n < 0 {
			return -n
		}
		return n
	},
}

// usd formats a decimal amount as US dollars with thousands separators,
// e.g. 10000 -> "$10,000.00".
func usd(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + frac
}

// Renderer holds one parsed template per page, each combined with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template under dir against layout.html.
func NewRenderer(dir string) (*Renderer, error) {
	layout := filepath.Join(dir, "layout.html")

	pageFiles, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list templates in %s: %w", dir, err)
	}

	pages := make(map[string]*template.Template)
	for _, page := range pageFiles {
		name := filepath.Base(page)
		if name == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layout, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found in %s", dir)
	}

	return &Renderer{pages: pages}, nil
}

// Render executes the named page into a buffer first, so a template error
// never leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := rd.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
