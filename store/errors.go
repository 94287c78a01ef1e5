package store

import "errors"

var (
	// ErrFetch wraps every collaborator failure (runtime, messages, assets).
	ErrFetch = errors.New("fetch failed")
	// ErrStale is returned when a response was superseded by a newer request
	// and therefore discarded.
	ErrStale = errors.New("stale response discarded")
	// ErrInvalidLocale is returned for locales that are not BCP 47 tags.
	ErrInvalidLocale = errors.New("invalid locale")
	// ErrUnknownPage is returned when a page has no extension.
	ErrUnknownPage = errors.New("unknown page")
	// ErrUnknownComponent is returned when a component has no descriptor.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrNoHistory is returned by navigation without a History collaborator.
	ErrNoHistory = errors.New("no history configured")
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("store closed")
)

// permanentError marks a collaborator failure that retrying cannot fix.
type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so the retry loop gives up immediately. Collaborators
// use it for validation failures and client errors.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
