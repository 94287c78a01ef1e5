// Package editor implements the editing session of a single extension
// point: open, live draft, commit with rollback, cancel.
//
// At most one extension is edited at a time. The draft lives here, not in
// the store, until it is committed. A commit writes the store optimistically,
// persists through the store.Saver and restores the pre-edit extension when
// the save fails. The edit target is cleared after every commit, successful
// or not.
package editor

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/dialogs"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/store"
)

var (
	// ErrNoSession is returned by draft and commit calls with nothing open.
	ErrNoSession = errors.New("no edit session")
	// ErrNotEditable is returned when opening a tree path with no extension.
	ErrNotEditable = errors.New("no extension to edit")
	// ErrSaveFailed wraps a failed save; the store was rolled back.
	ErrSaveFailed = errors.New("save failed")
)

// DefaultSaveTimeout bounds a commit's save call.
const DefaultSaveTimeout = 10 * time.Second

// Session is an open edit of one extension.
type Session struct {
	ID        uuid.UUID
	TreePath  string
	Component string

	draft store.Props
}

// Draft returns a copy of the unsaved props.
func (s *Session) Draft() store.Props {
	return maps.Clone(s.draft)
}

// Editor owns the edit session of a page.
type Editor struct {
	mu          sync.Mutex
	store       *store.Store
	saver       store.Saver
	notifier    dialogs.Notifier
	saveTimeout time.Duration
	current     *Session
}

// New creates an editor. A nil notifier uses dialogs.Default.
func New(s *store.Store, saver store.Saver, notifier dialogs.Notifier) *Editor {
	if notifier == nil {
		notifier = dialogs.Default
	}
	return &Editor{store: s, saver: saver, notifier: notifier, saveTimeout: DefaultSaveTimeout}
}

// SetSaveTimeout changes the bound of save calls; zero disables it.
func (e *Editor) SetSaveTimeout(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saveTimeout = d
}

// Current returns the open session.
func (e *Editor) Current() (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.current != nil
}

// Open starts editing treePath and makes it the global edit target. An
// edit already open on another path is cancelled first.
func (e *Editor) Open(treePath string) error {
	ext, ok := e.store.GetExtension(treePath)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotEditable, treePath)
	}

	e.mu.Lock()
	prev := e.current
	if prev != nil && prev.TreePath == treePath {
		e.mu.Unlock()
		return nil
	}
	e.current = &Session{
		ID:        uuid.New(),
		TreePath:  treePath,
		Component: ext.Component,
		draft:     maps.Clone(ext.Props),
	}
	id := e.current.ID
	e.mu.Unlock()

	if prev != nil {
		e.store.Emitter().Emit(events.ExtensionUpdate(prev.TreePath), nil)
	}
	console.Debug("[editor] open", treePath, "session:", id.String())
	e.store.EditExtensionPoint(treePath)
	e.store.Emitter().Emit(events.ExtensionUpdate(treePath), nil)
	return nil
}

// Draft implements extension.Editor.
func (e *Editor) Draft(treePath string) (store.Props, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil || e.current.TreePath != treePath {
		return nil, false
	}
	return maps.Clone(e.current.draft), true
}

// SetDraft replaces the draft and re-renders only the edited extension
// point.
func (e *Editor) SetDraft(props store.Props) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNoSession
	}
	e.current.draft = maps.Clone(props)
	path := e.current.TreePath
	e.mu.Unlock()

	e.store.Emitter().Emit(events.ExtensionUpdate(path), nil)
	return nil
}

// SetField changes one draft property.
func (e *Editor) SetField(name string, value any) error {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNoSession
	}
	draft := maps.Clone(e.current.draft)
	e.mu.Unlock()
	if draft == nil {
		draft = store.Props{}
	}
	draft[name] = value
	return e.SetDraft(draft)
}

// Commit writes props (the draft when nil) to the store and saves them.
// When the save fails the extension held just before the commit is
// restored, a failure notice is shown and the error wraps ErrSaveFailed.
// The session ends either way.
func (e *Editor) Commit(ctx context.Context, props store.Props) error {
	e.mu.Lock()
	sess := e.current
	e.current = nil
	timeout := e.saveTimeout
	e.mu.Unlock()
	if sess == nil {
		return ErrNoSession
	}
	defer e.store.EditExtensionPoint("")

	if props == nil {
		props = sess.draft
	}
	previous, existed := e.store.GetExtension(sess.TreePath)
	next := store.Extension{Component: sess.Component, Props: maps.Clone(props)}
	e.store.UpdateExtension(sess.TreePath, next)

	err := e.save(ctx, timeout, sess, next)
	if err == nil {
		console.Debug("[editor] saved", sess.TreePath, "session:", sess.ID.String())
		return nil
	}

	if existed {
		e.store.UpdateExtension(sess.TreePath, previous)
	} else {
		e.store.RemoveExtension(sess.TreePath)
	}
	console.Error("[editor] save of", sess.TreePath, "failed, rolled back:", err)
	e.notifier.Notify(dialogs.Notice{
		Level:   dialogs.Failure,
		Message: fmt.Sprintf("Could not save %s. Your changes were reverted.", sess.TreePath),
	})
	return fmt.Errorf("%w: %s: %w", ErrSaveFailed, sess.TreePath, err)
}

func (e *Editor) save(ctx context.Context, timeout time.Duration, sess *Session, ext store.Extension) error {
	if e.saver == nil {
		return errors.New("no saver configured")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return e.saver.SaveExtension(ctx, sess.TreePath, ext.Component, ext.Props)
}

// Cancel drops the draft and clears the edit target.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	sess := e.current
	e.current = nil
	e.mu.Unlock()
	if sess == nil {
		return ErrNoSession
	}
	e.store.EditExtensionPoint("")
	e.store.Emitter().Emit(events.ExtensionUpdate(sess.TreePath), nil)
	return nil
}
