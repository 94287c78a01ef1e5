package server

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/vcrobe/nojs-render/store"
)

// negotiateLocale picks the locale of a page request: an explicit
// ?locale= wins, then the best Accept-Language match among the site's
// locales, then the first site locale.
func negotiateLocale(r *http.Request, locales []string) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		if canonical, err := store.CanonicalLocale(l); err == nil {
			return canonical
		}
	}
	if len(locales) == 0 {
		return ""
	}
	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return locales[0]
	}
	accepted, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(accepted) == 0 {
		return locales[0]
	}
	_, index, confidence := language.NewMatcher(tags).Match(accepted...)
	if confidence == language.No {
		return locales[0]
	}
	return tags[index].String()
}
