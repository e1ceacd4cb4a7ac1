// Package web serves the structure and mutation table dashboard pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/TuftsBCB/mutview/cbio"
	"github.com/TuftsBCB/mutview/config"
	"github.com/TuftsBCB/mutview/fetch"
	"github.com/TuftsBCB/mutview/pdb"
	"github.com/TuftsBCB/mutview/plot"
	"github.com/TuftsBCB/mutview/viewer"
)

// DefaultIdentifier is shown in the structure form when nothing was entered.
const DefaultIdentifier = "Q8N6V4"

//go:embed templates/*.html
var templateFS embed.FS

// Server is the dashboard. It implements http.Handler.
type Server struct {
	conf     *config.Config
	fetcher  *fetch.Fetcher
	sessions *sessionStore
	pages    *template.Template
	mux      *http.ServeMux

	cbioOnce   sync.Once
	cbioClient *cbio.Client
}

// New builds a Server from a validated configuration.
func New(conf *config.Config) (*Server, error) {
	pages, err := template.New("").Funcs(template.FuncMap{
		"chain":        func(b byte) string { return string(rune(b)) },
		"altCount":     optionalCount,
		"residueRange": residueRange,
		"viewerScript": func() string { return viewer.ScriptURL },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		conf:     conf,
		fetcher:  conf.Fetcher(),
		sessions: newSessionStore(conf.Session.IdleTTL.Std()),
		pages:    pages,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/structure", http.StatusFound)
	})
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /structure", s.handleStructure)
	s.mux.HandleFunc("POST /structure", s.handleStructureAction)
	s.mux.HandleFunc("GET /structure/chart.svg", s.handleStructureChart)
	s.mux.HandleFunc("GET /structure/sequence.fasta", s.handleSequence)
	s.mux.HandleFunc("GET /mutations", s.handleMutations)
	s.mux.HandleFunc("POST /mutations", s.handleMutationsAction)
	s.mux.HandleFunc("GET /mutations/chart.svg", s.handleMutationsChart)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// portal returns the cBioPortal client, creating it on first use.
func (s *Server) portal() *cbio.Client {
	s.cbioOnce.Do(func() {
		s.cbioClient = cbio.NewClient(s.conf.CBio())
		slog.Info("web: cBioPortal client ready",
			"base_url", s.conf.CBioPortal.BaseURL)
	})
	return s.cbioClient
}

func (s *Server) theme() plot.Theme {
	return plot.Theme{
		Background: s.conf.Theme.Background,
		Accent:     s.conf.Theme.Accent,
		Text:       s.conf.Theme.Text,
	}
}

func (s *Server) viewerOptions() viewer.Options {
	opts := viewer.DefaultOptions
	opts.Background = s.conf.Theme.Background
	return opts
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok\n"))
}

// page is the data every page template gets.
type page struct {
	Title string
	Theme config.Theme
	Data  interface{}
}

func (s *Server) render(w http.ResponseWriter, name, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.pages.ExecuteTemplate(w, name, page{
		Title: title,
		Theme: s.conf.Theme,
		Data:  data,
	})
	if err != nil {
		slog.Error("web: rendering page failed", "page", name, "error", err)
	}
}

func residueRange(c *pdb.Chain) string {
	start, end := c.ResidueRange()
	return fmt.Sprintf("%d-%d", start, end)
}

func optionalCount(p *int) string {
	if p == nil {
		return "N/A"
	}
	return strconv.Itoa(*p)
}
