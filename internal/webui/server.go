// Package webui exposes a minimal HTTP server with an HTML form for probing a
// candidate source page and viewing the report, including the suggested
// pipeline config, without leaving the browser.
//
// Routes:
//
//	GET  /          → form
//	POST /probe     → runs the probe with form inputs; renders output inline
//	GET  /api/probe → machine-friendly API, returns application/json
package webui

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"banksetl/internal/extract"
	"banksetl/internal/logger"
	"banksetl/internal/probe"
)

// Config controls server startup.
type Config struct {
	Addr    string
	Fetcher extract.Fetcher
	Log     *logger.Entry
}

// Server wraps http.ServeMux with the probe routes.
type Server struct {
	cfg  Config
	mux  *http.ServeMux
	tmpl *template.Template
}

// NewServer constructs a Server with routes and the page template.
func NewServer(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = logger.Discard().WithComponent("webui")
	}
	s := &Server{
		cfg:  cfg,
		mux:  http.NewServeMux(),
		tmpl: template.Must(template.New("index").Parse(indexHTML)),
	}
	s.routes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.Addr, s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/probe", s.handleProbe)
	s.mux.HandleFunc("/api/probe", s.handleAPIProbe)
}

type pageData struct {
	URL        string
	Rows       int
	Backend    string
	ResultText string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	_ = s.tmpl.Execute(w, pageData{Rows: 5, Backend: "sqlite"})
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}
	opt := optionsFrom(r.FormValue)
	body, err := s.run(r, opt)
	if err != nil {
		http.Error(w, "probe failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	data := pageData{URL: opt.URL, Rows: opt.SampleRows, Backend: opt.Backend, ResultText: string(body)}
	if err := s.tmpl.Execute(w, data); err != nil {
		s.cfg.Log.WithError(err).Error("template error")
	}
}

func (s *Server) handleAPIProbe(w http.ResponseWriter, r *http.Request) {
	body, err := s.run(r, optionsFrom(r.URL.Query().Get))
	if err != nil {
		http.Error(w, "probe failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) run(r *http.Request, opt probe.Options) ([]byte, error) {
	log := s.cfg.Log.WithFields(logger.Fields{"url": opt.URL})
	rep, err := probe.Page(r.Context(), s.cfg.Fetcher, opt)
	if err != nil {
		log.WithError(err).Warn("probe failed")
		return nil, err
	}
	log.WithFields(logger.Fields{"records": rep.Records, "tables": rep.Tables}).Info("probe done")
	return json.MarshalIndent(rep, "", "  ")
}

func optionsFrom(get func(string) string) probe.Options {
	rows, _ := strconv.Atoi(strings.TrimSpace(get("rows")))
	return probe.Options{
		URL:        strings.TrimSpace(get("url")),
		SampleRows: rows,
		Backend:    strings.TrimSpace(get("backend")),
	}
}

const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>banks page probe</title>
<style>body{font-family:sans-serif;max-width:60em;margin:2em auto}label{display:block;margin:.5em 0}pre{background:#f4f4f4;padding:1em;overflow:auto}</style>
</head>
<body>
<h1>Source page probe</h1>
<form method="post" action="/probe">
<label>URL <input name="url" size="80" value="{{.URL}}"></label>
<label>Preview rows <input name="rows" type="number" min="1" value="{{.Rows}}"></label>
<label>Backend
<select name="backend">
<option {{if eq .Backend "sqlite"}}selected{{end}}>sqlite</option>
<option {{if eq .Backend "postgres"}}selected{{end}}>postgres</option>
<option {{if eq .Backend "mysql"}}selected{{end}}>mysql</option>
<option {{if eq .Backend "mssql"}}selected{{end}}>mssql</option>
</select></label>
<button type="submit">Probe</button>
</form>
{{if .ResultText}}<h2>Report</h2><pre>{{.ResultText}}</pre>{{end}}
</body>
</html>
`
