package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

var templateFuncs = template.FuncMap{
	// fmtFloat prints a statistic with up to 3 decimals; NaN prints as a dash
	"fmtFloat": func(v float64) string {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "—"
		}
		return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
	},
	"pct": func(v float64) string {
		return strconv.FormatFloat(v*100, 'f', 1, 64) + " %"
	},
	// barWidth sizes a histogram bar as a share of the total
	"barWidth": func(count, total float64) string {
		if total <= 0 {
			return "0%"
		}
		return strconv.FormatFloat(count/total*100, 'f', 1, 64) + "%"
	},
	// corrClass buckets a coefficient for colouring
	"corrClass": func(v float64) string {
		switch {
		case math.IsNaN(v):
			return "corr-na"
		case v >= 0.5:
			return "corr-pos-strong"
		case v >= 0.2:
			return "corr-pos"
		case v <= -0.5:
			return "corr-neg-strong"
		case v <= -0.2:
			return "corr-neg"
		}
		return "corr-weak"
	},
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// renderTemplate executes into a buffer first so a template error never
// leaves a half-written page behind
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data gin.H) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Template error for %s: %v", name, err)
		c.String(500, "Erreur de rendu de la page")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
