package extension

import (
	"maps"

	"github.com/vcrobe/nojs-render/store"
)

// PageProps is the lowest props layer: the current page's params and query,
// under the "params" and "query" keys.
func PageProps(s *store.Store) store.Props {
	page, _ := s.PageInfo(s.Page())
	params := page.Params
	if params == nil {
		params = map[string]string{}
	}
	return store.Props{"params": params, "query": s.Query()}
}

// MergeProps flattens layers into a new map. Later layers win on key
// collisions: MergeProps(page, extension, explicit) gives explicit props
// precedence over extension-stored props, which win over page params and
// query. Nil layers are skipped; nested values are not merged.
func MergeProps(layers ...store.Props) store.Props {
	n := 0
	for _, l := range layers {
		n += len(l)
	}
	out := make(store.Props, n)
	for _, l := range layers {
		maps.Copy(out, l)
	}
	return out
}
