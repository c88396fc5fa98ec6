// Package web holds the dashboard's embedded templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"wpconn-dashboard/internal/health"
	"wpconn-dashboard/internal/notify"
	"wpconn-dashboard/internal/timefmt"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Pages that can be passed to c.HTML.
const (
	PageLogin       = "login"
	PageOverview    = "overview"
	PageConnections = "connections"
	PageHistory     = "history"
	PageLogs        = "logs"
	PageUsers       = "users"
	PageConfirm     = "confirm"
)

var pageNames = []string{PageLogin, PageOverview, PageConnections, PageHistory, PageLogs, PageUsers, PageConfirm}

// Page is the data every template receives.
type Page struct {
	Title         string
	Section       string
	Operator      string
	Scope         string
	Notifications []notify.Notification
	Health        *health.Status
	Content       any
}

// Renderer implements gin's render.HTMLRender with one template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer(loc *time.Location) (*Renderer, error) {
	funcs := Funcs(loc)
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		panic("web: unknown page " + name)
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

// Static serves the embedded stylesheet and scripts.
func Static() http.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Funcs are the template helpers. Timestamps render in loc.
func Funcs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"ts": func(s string) string {
			return timefmt.Format(s, loc)
		},
		"pct": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
		"inc": func(n int) int { return n + 1 },
		"dec": func(n int) int { return n - 1 },
		"orDash": func(s string) string {
			if strings.TrimSpace(s) == "" {
				return "-"
			}
			return s
		},
		"mask": func(s string) string {
			if len(s) <= 8 {
				return strings.Repeat("•", len(s))
			}
			return s[:4] + "…" + s[len(s)-4:]
		},
	}
}
