// Package server is the server-rendered web client: list, view, edit and
// search pages over the content API, with htmx progressive enhancement.
package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gerunddev/roamweb/enhance"
	"github.com/gerunddev/roamweb/internal/api"
	"github.com/gerunddev/roamweb/internal/logger"
	"github.com/gerunddev/roamweb/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders pages for one content API.
type Server struct {
	api    *api.Client
	log    *logger.Logger
	styles *enhance.Styles
	tmpl   *template.Template
}

// New builds a Server. styles may be nil for the default class tables.
func New(client *api.Client, styles *enhance.Styles, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Discard()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Server{api: client, log: log, styles: styles, tmpl: tmpl}, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /nodes/new", s.handleNewForm)
	mux.HandleFunc("POST /nodes", s.handleCreate)
	mux.HandleFunc("GET /nodes/{id}", s.handleView)
	mux.HandleFunc("GET /nodes/{id}/edit", s.handleEditForm)
	mux.HandleFunc("POST /nodes/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /nodes/{id}", s.handleDelete)
	mux.HandleFunc("POST /nodes/{id}/delete", s.handleDelete)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /tags", s.handleTags)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.api.ListNodes(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderPage(w, "index", map[string]any{
		"Title": "Notes",
		"Nodes": nodes,
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	node, err := s.api.GetNode(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	body := s.renderBody(node)

	// Backlinks are decoration: a failed query degrades to an empty panel.
	backlinks, err := s.api.Backlinks(r.Context(), id)
	if err != nil {
		s.log.RequestFailed(http.MethodGet, "backlinks", err)
		backlinks = nil
	}

	s.renderPage(w, "node", map[string]any{
		"Title":     node.Title,
		"Node":      node,
		"Body":      body,
		"Backlinks": backlinks,
	})
}

// renderBody runs the full pipeline over a node. Rendering never fails the
// page: on error the fallback fragment is shown and the failure is logged.
func (s *Server) renderBody(node *api.Node) template.HTML {
	opts := render.Options{Styles: s.styles}
	switch node.Format {
	case "org":
		opts.Dialect = render.DialectOrg
	case "markdown":
		opts.Dialect = render.DialectMarkdown
	}
	out, err := render.HTML(node.Content, opts)
	if err != nil {
		s.log.RenderFailed(node.ID.String(), err)
	}
	// Output is sanitized by the pipeline, so it is safe to mark trusted.
	return template.HTML(out)
}

func (s *Server) handleNewForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "form", map[string]any{
		"Title":  "New note",
		"Action": "/nodes",
		"Node":   &api.Node{Format: "org"},
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	draft, err := draftFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	node, err := s.api.CreateNode(r.Context(), draft)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.log.NodeSaved(node.ID.String(), node.Title)
	http.Redirect(w, r, "/nodes/"+node.ID.String(), http.StatusSeeOther)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	node, err := s.api.GetNode(r.Context(), id)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderPage(w, "form", map[string]any{
		"Title":  "Edit " + node.Title,
		"Action": "/nodes/" + node.ID.String(),
		"Node":   node,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	draft, err := draftFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	node, err := s.api.UpdateNode(r.Context(), id, draft)
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.log.NodeSaved(node.ID.String(), node.Title)
	http.Redirect(w, r, "/nodes/"+node.ID.String(), http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := s.api.DeleteNode(r.Context(), id); err != nil {
		s.renderError(w, err)
		return
	}
	s.log.NodeDeleted(id.String())

	// htmx callers follow HX-Redirect; plain form posts get a 303.
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var nodes []api.Node
	if query != "" {
		var err error
		nodes, err = s.api.Search(r.Context(), query)
		if err != nil {
			s.renderError(w, err)
			return
		}
	}

	data := map[string]any{
		"Title": "Search",
		"Query": query,
		"Nodes": nodes,
	}
	// htmx live-search swaps just the result list.
	if r.Header.Get("HX-Request") == "true" {
		s.renderPage(w, "results", data)
		return
	}
	s.renderPage(w, "search", data)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.api.Tags(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.renderPage(w, "tags", map[string]any{
		"Title": "Tags",
		"Tags":  tags,
	})
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template render failed", "template", name, "error", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, api.ErrNotFound) {
		status = http.StatusNotFound
	}
	w.WriteHeader(status)
	s.renderPage(w, "error", map[string]any{
		"Title":   "Error",
		"Message": err.Error(),
	})
}

func draftFromForm(r *http.Request) (api.NodeDraft, error) {
	if err := r.ParseForm(); err != nil {
		return api.NodeDraft{}, fmt.Errorf("bad form: %w", err)
	}
	title := strings.TrimSpace(r.PostFormValue("title"))
	if title == "" {
		return api.NodeDraft{}, errors.New("title is required")
	}
	format := r.PostFormValue("format")
	if format != "org" && format != "markdown" {
		format = "org"
	}
	var tags []string
	for _, tag := range strings.Split(r.PostFormValue("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return api.NodeDraft{
		Title:   title,
		Content: r.PostFormValue("content"),
		Format:  format,
		Tags:    tags,
	}, nil
}
