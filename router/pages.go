// Package router maps between page names and URL paths and performs
// page-level navigation through a History collaborator.
//
// Page path templates use ":name" segments, or "{name}" segments as in the
// nojs router: "/product/:slug", "/blog/{year}".
package router

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ErrNoRoute is returned when no page matches a path or a page is unknown.
var ErrNoRoute = errors.New("no route")

// Page is a routable page declared in the runtime payload.
type Page struct {
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
	// Params holds values resolved on the client for the current location.
	// The server never sends them; they survive runtime refreshes.
	Params map[string]string `json:"params,omitempty"`
}

// Match is a page resolved from a path.
type Match struct {
	Page   string
	Params map[string]string
}

// PageNameFromPath resolves path against the page templates. Among several
// matches the one with the most literal segments wins, then the name.
func PageNameFromPath(path string, pages map[string]Page) (Match, bool) {
	actual := split(path)
	var best *Match
	bestLiterals := -1
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		template := split(pages[name].Path)
		params, literals, ok := matchSegments(template, actual)
		if !ok || literals <= bestLiterals {
			continue
		}
		bestLiterals = literals
		best = &Match{Page: name, Params: params}
	}
	if best == nil {
		return Match{}, false
	}
	return *best, true
}

func matchSegments(template, actual []string) (map[string]string, int, bool) {
	if len(template) != len(actual) {
		return nil, 0, false
	}
	params := make(map[string]string)
	literals := 0
	for i, seg := range template {
		if name, ok := paramName(seg); ok {
			value, err := url.PathUnescape(actual[i])
			if err != nil {
				return nil, 0, false
			}
			params[name] = value
			continue
		}
		if seg != actual[i] {
			return nil, 0, false
		}
		literals++
	}
	return params, literals, true
}

// BuildPath fills the parameters of a path template.
func BuildPath(template string, params map[string]string) (string, error) {
	segments := split(template)
	for i, seg := range segments {
		name, ok := paramName(seg)
		if !ok {
			continue
		}
		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("missing param %q for %s", name, template)
		}
		segments[i] = url.PathEscape(value)
	}
	return "/" + strings.Join(segments, "/"), nil
}

func paramName(seg string) (string, bool) {
	if strings.HasPrefix(seg, ":") && len(seg) > 1 {
		return seg[1:], true
	}
	if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2 {
		return strings.Trim(seg, "{}"), true
	}
	return "", false
}

// split normalises a path into segments; "/" and "" both yield none.
func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
