package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/extension"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/router"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/vdom"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="app">{{.Body}}</div>
<script>window.__RUNTIME__ = {{.Runtime}};</script>
</body>
</html>
`))

type document struct {
	Locale  string
	Title   string
	Body    template.HTML
	Runtime store.RuntimePayload
}

// Rendered is a server-rendered page.
type Rendered struct {
	Page     string
	Found    bool
	Document string
}

// Route resolves path against payload's pages and fills the page, its
// params and the query. Found is false when no page template matches.
func Route(payload *store.RuntimePayload, path string, query url.Values) bool {
	match, ok := router.PageNameFromPath(path, payload.Pages)
	if !ok {
		payload.Page = ""
		return false
	}
	payload.Page = match.Page
	page := payload.Pages[match.Page]
	page.Params = match.Params
	payload.Pages[match.Page] = page
	payload.Query = make(map[string]string, len(query))
	for k := range query {
		payload.Query[k] = query.Get(k)
	}
	return true
}

// RenderPage renders payload's current page with the components of reg.
// The embedded runtime omits page params, which the client resolves from
// its own location.
func RenderPage(payload store.RuntimePayload, reg *registry.Registry) (Rendered, error) {
	embedded := payload
	embedded.Pages = make(map[string]router.Page, len(payload.Pages))
	for name, p := range payload.Pages {
		p.Params = nil
		embedded.Pages[name] = p
	}

	if reg == nil {
		reg = registry.New()
	}
	s, err := store.New(&payload, store.Options{Emitter: events.NewEmitter(), Registry: reg})
	if err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", payload.Page, err)
	}
	r := runtime.NewRenderer(nil, runtime.MounterFunc(func(*vdom.VNode) {}))
	r.SetCurrentComponent(&extension.PageView{Env: &extension.Env{Store: s}})
	tree := r.RenderRoot()
	defer r.Unmount()

	body, err := vdom.HTMLString(tree)
	if err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", payload.Page, err)
	}

	_, found := s.GetExtension(payload.Page)
	title := ""
	if info, ok := s.PageInfo(payload.Page); ok {
		title = info.Title
	}
	var buf bytes.Buffer
	err = documentTemplate.Execute(&buf, document{
		Locale:  payload.Culture.Locale,
		Title:   title,
		Body:    template.HTML(body),
		Runtime: embedded,
	})
	if err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", payload.Page, err)
	}
	return Rendered{Page: payload.Page, Found: found, Document: buf.String()}, nil
}
