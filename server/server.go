// Package server is the render dev server. It serves a Site over the
// versioned runtime endpoints the client package speaks, renders pages to
// HTML through the same extension engine, and pushes runtime changes to
// connected pages.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vcrobe/nojs-render/client"
	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/push"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/store"
)

// Options configures a Server. Registry and Hub may be nil: without a
// registry pages render only placeholders, without a hub changes are not
// pushed.
type Options struct {
	Registry    *registry.Registry
	Hub         *push.Hub
	RenderMajor int
	Production  bool
}

// Server serves one Site.
type Server struct {
	site   *Site
	opts   Options
	router *mux.Router
}

// New creates a server for site.
func New(site *Site, opts Options) *Server {
	if opts.RenderMajor == 0 {
		opts.RenderMajor = client.DefaultSettings().RenderMajor
	}
	s := &Server{site: site, opts: opts, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix(client.Prefix(s.opts.RenderMajor)).Subrouter()
	api.HandleFunc(client.RuntimePath, s.handleRuntime).Methods(http.MethodGet)
	api.HandleFunc(client.MessagesPath, s.handleMessages).Methods(http.MethodGet)
	api.HandleFunc(client.MessagesPath, s.handleSetMessages).Methods(http.MethodPost)
	api.HandleFunc(client.AvailablePath, s.handleAvailable).Methods(http.MethodGet)
	api.HandleFunc(client.ExtensionsPath, s.handleSaveExtension).Methods(http.MethodPost)
	api.HandleFunc("/components/{id:.+}/updated", s.handleComponentUpdated).Methods(http.MethodPost)
	api.PathPrefix(client.AssetsPath).HandlerFunc(s.handleAsset).Methods(http.MethodGet)
	if s.opts.Hub != nil {
		api.Handle(client.PushPath, s.opts.Hub)
	}
	s.router.PathPrefix("/").HandlerFunc(s.handlePage).Methods(http.MethodGet)
	s.router.Use(logRequests)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		console.Debug("[server]", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRuntime(w http.ResponseWriter, r *http.Request) {
	payload, err := s.site.Runtime()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	q := r.URL.Query()
	if page := q.Get("page"); page != "" {
		payload.Page = page
	}
	if locale := q.Get("locale"); locale != "" {
		canonical, err := store.CanonicalLocale(locale)
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}
		if m, ok := s.site.Messages(canonical, ""); ok {
			payload.Messages = m
		}
		payload.Culture.Locale = canonical
	}
	payload.Production = s.opts.Production
	writeJSON(w, payload)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	locale, err := store.CanonicalLocale(q.Get("locale"))
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	m, ok := s.site.Messages(locale, q.Get("app"))
	if !ok {
		httpError(w, http.StatusNotFound, fmt.Errorf("no messages for %s %s", locale, q.Get("app")))
		return
	}
	writeJSON(w, m)
}

// handleSetMessages replaces a bundle and pushes localesUpdated.
func (s *Server) handleSetMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	locale, err := store.CanonicalLocale(q.Get("locale"))
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	var m store.Messages
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("decode messages: %w", err))
		return
	}
	s.site.SetMessages(locale, q.Get("app"), m)
	s.publish(events.LocalesUpdated, []string{locale})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAvailable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.site.Available())
}

// handleSaveExtension stores an edited extension and pushes
// extensionsUpdated.
func (s *Server) handleSaveExtension(w http.ResponseWriter, r *http.Request) {
	if s.opts.Production {
		httpError(w, http.StatusForbidden, errors.New("extensions are read-only in production"))
		return
	}
	var req client.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("decode save request: %w", err))
		return
	}
	if req.TreePath == "" || req.Component == "" {
		httpError(w, http.StatusBadRequest, errors.New("treePath and component are required"))
		return
	}
	if !s.knownComponent(req.Component) {
		httpError(w, http.StatusBadRequest, fmt.Errorf("%w: %s", store.ErrUnknownComponent, req.Component))
		return
	}
	s.site.SetExtension(req.TreePath, store.Extension{Component: req.Component, Props: req.Props})
	console.Log("[server] saved", req.TreePath, "as", req.Component, "request", req.RequestID)
	s.publish(events.ExtensionsUpdated, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) knownComponent(id string) bool {
	if s.site.HasComponent(id) {
		return true
	}
	if s.opts.Registry == nil {
		return false
	}
	_, ok := s.opts.Registry.Lookup(id)
	return ok
}

// handleComponentUpdated pushes componentUpdated for a rebuilt component.
func (s *Server) handleComponentUpdated(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.knownComponent(id) {
		httpError(w, http.StatusNotFound, fmt.Errorf("%w: %s", store.ErrUnknownComponent, id))
		return
	}
	s.publish(events.ComponentUpdated, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	prefix := client.Prefix(s.opts.RenderMajor) + client.AssetsPath
	name := r.URL.Path[len(prefix):]
	content, ok := s.site.Asset(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	_, _ = w.Write([]byte(content))
}

// handlePage server-renders the page matching the request path.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	payload, err := s.site.Runtime()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	payload.Production = s.opts.Production
	if locale := negotiateLocale(r, s.site.Locales()); locale != "" && locale != payload.Culture.Locale {
		if m, ok := s.site.Messages(locale, ""); ok {
			payload.Culture.Locale = locale
			payload.Messages = m
		}
	}
	Route(&payload, r.URL.Path, r.URL.Query())

	out, err := RenderPage(payload, s.opts.Registry)
	if err != nil {
		console.Error("[server] render", r.URL.Path, "failed:", err)
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !out.Found {
		w.WriteHeader(http.StatusNotFound)
	}
	_, _ = w.Write([]byte(out.Document))
}

func (s *Server) publish(event string, payload any) {
	if s.opts.Hub == nil {
		return
	}
	n, err := s.opts.Hub.Publish(event, payload)
	if err != nil {
		console.Error("[server] push", event, "failed:", err)
		return
	}
	console.Debug("[server] pushed", event, "to", n, "peer(s)")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		console.Warn("[server] write response failed:", err)
	}
}

// httpError writes err as the plain-text body the client reports.
func httpError(w http.ResponseWriter, code int, err error) {
	http.Error(w, err.Error(), code)
}
