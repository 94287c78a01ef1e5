// Package treepath computes the hierarchical identifiers that address
// positions in a page's extension tree.
//
// A tree path is an opaque key. Lookups never parse it; only Root and
// Segments split it, for page-level concerns such as the editor provider.
package treepath

import "strings"

// Separator joins tree path segments.
const Separator = "/"

// Mount returns the tree path of the extension point currentID mounted under
// parentPath. Empty segments are dropped, so Mount(id, "") == id.
func Mount(currentID, parentPath string) string {
	return Join(parentPath, currentID)
}

// Join joins the non-empty segments with Separator.
func Join(segments ...string) string {
	kept := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, Separator)
}

// Root returns the first segment of p.
func Root(p string) string {
	root, _, _ := strings.Cut(p, Separator)
	return root
}

// Segments splits p into its non-empty segments.
func Segments(p string) []string {
	if p == "" {
		return nil
	}
	parts := strings.Split(p, Separator)
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
