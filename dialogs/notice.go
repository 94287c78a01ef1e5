// Package dialogs surfaces user-visible notices such as failed saves.
package dialogs

import "sync"

// Level is the severity of a notice.
type Level int

const (
	Info Level = iota
	Failure
)

// Notice is a message for the person using the page.
type Notice struct {
	Level   Level
	Message string
}

// Notifier shows notices.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Recorder keeps notices in memory, for tests and server rendering.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
