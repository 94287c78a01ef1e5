package editor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-render/dialogs"
	"github.com/vcrobe/nojs-render/editor"
	"github.com/vcrobe/nojs-render/events"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/testcomponents"
	"github.com/vcrobe/nojs-render/vdom"
)

func newStore(t *testing.T, reg *registry.Registry) (*store.Store, *events.Emitter) {
	t.Helper()
	em := events.NewEmitter()
	s, err := store.New(&store.RuntimePayload{
		Extensions: map[string]store.Extension{
			"/a/b": {Component: "shop/banner", Props: store.Props{"color": "blue"}},
		},
	}, store.Options{Emitter: em, Registry: reg})
	require.NoError(t, err)
	return s, em
}

// TestEditor_CommitSaveFailureRollsBack verifies that a failed save restores
// the pre-edit extension, shows a notice and clears the edit target.
func TestEditor_CommitSaveFailureRollsBack(t *testing.T) {
	// Arrange
	s, _ := newStore(t, nil)
	saver := &testcomponents.Saver{Err: errors.New("validation failed")}
	notices := &dialogs.Recorder{}
	ed := editor.New(s, saver, notices)
	require.NoError(t, ed.Open("/a/b"))
	require.Equal(t, "/a/b", s.EditTarget().Get())

	// Act
	err := ed.Commit(context.Background(), store.Props{"color": "red"})

	// Assert
	require.ErrorIs(t, err, editor.ErrSaveFailed)
	ext, _ := s.GetExtension("/a/b")
	assert.Equal(t, store.Extension{Component: "shop/banner", Props: store.Props{"color": "blue"}}, ext)
	assert.Equal(t, "", s.EditTarget().Get())
	require.Len(t, notices.Notices(), 1)
	assert.Equal(t, dialogs.Failure, notices.Notices()[0].Level)
	_, open := ed.Current()
	assert.False(t, open)
}

// TestEditor_RollbackKeepsRefreshedExtension verifies a failed save restores
// what the store held at commit time, not what it held when the session
// opened.
func TestEditor_RollbackKeepsRefreshedExtension(t *testing.T) {
	// Arrange
	s, _ := newStore(t, nil)
	ed := editor.New(s, &testcomponents.Saver{Err: errors.New("offline")}, &dialogs.Recorder{})
	require.NoError(t, ed.Open("/a/b"))
	refreshed := store.Extension{Component: "shop/banner", Props: store.Props{"color": "green"}}
	s.UpdateExtension("/a/b", refreshed)

	// Act
	err := ed.Commit(context.Background(), store.Props{"color": "red"})

	// Assert
	require.ErrorIs(t, err, editor.ErrSaveFailed)
	ext, ok := s.GetExtension("/a/b")
	require.True(t, ok)
	assert.Equal(t, refreshed, ext)
}

// TestEditor_CommitSavesAndClearsTarget verifies the successful path.
func TestEditor_CommitSavesAndClearsTarget(t *testing.T) {
	// Arrange
	s, em := newStore(t, nil)
	saver := &testcomponents.Saver{}
	ed := editor.New(s, saver, &dialogs.Recorder{})
	require.NoError(t, ed.Open("/a/b"))
	var seen []store.Extension
	em.AddListener(events.ExtensionUpdate("/a/b"), events.NewHandler(func(events.Event) {
		ext, _ := s.GetExtension("/a/b")
		seen = append(seen, ext)
	}))

	// Act
	err := ed.Commit(context.Background(), store.Props{"color": "red"})

	// Assert
	require.NoError(t, err)
	ext, _ := s.GetExtension("/a/b")
	assert.Equal(t, "red", ext.Props["color"])
	assert.Equal(t, []testcomponents.SavedExtension{{TreePath: "/a/b", Component: "shop/banner", Props: store.Props{"color": "red"}}}, saver.Saved())
	assert.Equal(t, "", s.EditTarget().Get())
	require.Len(t, seen, 1)
	assert.Equal(t, "red", seen[0].Props["color"])
}

// TestEditor_DraftIsLocal verifies drafts never reach the store and emit
// only the edited path.
func TestEditor_DraftIsLocal(t *testing.T) {
	// Arrange
	s, em := newStore(t, nil)
	ed := editor.New(s, &testcomponents.Saver{}, &dialogs.Recorder{})
	require.NoError(t, ed.Open("/a/b"))
	updates := 0
	wildcard := 0
	em.AddListener(events.ExtensionUpdate("/a/b"), events.NewHandler(func(events.Event) { updates++ }))
	em.AddListener(events.ExtensionWildcard, events.NewHandler(func(events.Event) { wildcard++ }))

	// Act
	require.NoError(t, ed.SetField("color", "green"))
	draft, editing := ed.Draft("/a/b")
	_, other := ed.Draft("/elsewhere")

	// Assert
	assert.True(t, editing)
	assert.False(t, other)
	assert.Equal(t, "green", draft["color"])
	ext, _ := s.GetExtension("/a/b")
	assert.Equal(t, "blue", ext.Props["color"])
	assert.Equal(t, 1, updates)
	assert.Equal(t, 0, wildcard)
}

// TestEditor_CommitDraftWhenNoProps verifies commit falls back to the draft.
func TestEditor_CommitDraftWhenNoProps(t *testing.T) {
	s, _ := newStore(t, nil)
	ed := editor.New(s, &testcomponents.Saver{}, &dialogs.Recorder{})
	require.NoError(t, ed.Open("/a/b"))
	require.NoError(t, ed.SetDraft(store.Props{"color": "teal"}))

	require.NoError(t, ed.Commit(context.Background(), nil))

	ext, _ := s.GetExtension("/a/b")
	assert.Equal(t, "teal", ext.Props["color"])
}

// TestEditor_Cancel verifies cancel drops the draft and the target.
func TestEditor_Cancel(t *testing.T) {
	s, _ := newStore(t, nil)
	ed := editor.New(s, &testcomponents.Saver{}, &dialogs.Recorder{})
	require.NoError(t, ed.Open("/a/b"))
	require.NoError(t, ed.SetDraft(store.Props{"color": "pink"}))

	require.NoError(t, ed.Cancel())

	_, editing := ed.Draft("/a/b")
	assert.False(t, editing)
	assert.Equal(t, "", s.EditTarget().Get())
	assert.ErrorIs(t, ed.Cancel(), editor.ErrNoSession)
	assert.ErrorIs(t, ed.Commit(context.Background(), nil), editor.ErrNoSession)
	assert.ErrorIs(t, ed.SetDraft(nil), editor.ErrNoSession)
}

// TestEditor_OpenSingleTarget verifies one edit target at a time and that
// missing extensions cannot be opened.
func TestEditor_OpenSingleTarget(t *testing.T) {
	s, _ := newStore(t, nil)
	s.UpdateExtension("/a/c", store.Extension{Component: "shop/banner"})
	ed := editor.New(s, &testcomponents.Saver{}, &dialogs.Recorder{})

	require.NoError(t, ed.Open("/a/b"))
	first, _ := ed.Current()
	require.NoError(t, ed.Open("/a/c"))
	second, _ := ed.Current()

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "/a/c", s.EditTarget().Get())
	_, stillB := ed.Draft("/a/b")
	assert.False(t, stillB)
	assert.ErrorIs(t, ed.Open("/missing"), editor.ErrNotEditable)
}

// TestEditBar_Views verifies the toggle and the form views.
func TestEditBar_Views(t *testing.T) {
	// Arrange
	reg := registry.New()
	reg.Register("shop/banner", nil, registry.WithSchema(registry.Schema{
		Title:  "Banner",
		Fields: []registry.Field{{Name: "color", Title: "Color"}, {Name: "size", Default: "m"}},
	}))
	s, _ := newStore(t, reg)
	ed := editor.New(s, &testcomponents.Saver{}, &dialogs.Recorder{})
	r := testcomponents.NewTestRenderer(&editor.EditBar{Editor: ed}, nil)

	// Act
	r.RenderRoot()
	closed := r.HTML()
	require.NoError(t, ed.Open("/a/b"))
	open := r.HTML()

	// Assert
	assert.Equal(t, `<div class="EditBar"><button class="EditBar-toggle">Edit</button></div>`, closed)
	assert.Contains(t, open, "<h3>Banner</h3>")
	assert.Contains(t, open, `<span>Color</span><input name="color" type="text" value="blue"/>`)
	assert.Contains(t, open, `<span>size</span><input name="size" type="text" value="m"/>`)
}

// TestEditBar_FieldInputUpdatesDraft verifies typing in a field changes the
// draft and notifies the edited extension point.
func TestEditBar_FieldInputUpdatesDraft(t *testing.T) {
	// Arrange
	reg := registry.New()
	reg.Register("shop/banner", nil, registry.WithSchema(registry.Schema{
		Fields: []registry.Field{{Name: "color", Title: "Color"}},
	}))
	s, em := newStore(t, reg)
	ed := editor.New(s, &testcomponents.Saver{}, &dialogs.Recorder{})
	r := testcomponents.NewTestRenderer(&editor.EditBar{Editor: ed}, nil)
	r.RenderRoot()
	require.NoError(t, ed.Open("/a/b"))
	notified := 0
	em.AddListener(events.ExtensionUpdate("/a/b"), events.NewHandler(func(events.Event) { notified++ }))
	input := r.GetCurrentVDOM().Find(func(n *vdom.VNode) bool { return n.Attr("name") == "color" })
	require.NotNil(t, input)
	require.NotNil(t, input.OnInput)

	// Act
	input.OnInput("green")

	// Assert
	draft, editing := ed.Draft("/a/b")
	require.True(t, editing)
	assert.Equal(t, "green", draft["color"])
	assert.Equal(t, 1, notified)
}

// TestEditBar_HiddenInProduction verifies production pages carry no edit
// affordance.
func TestEditBar_HiddenInProduction(t *testing.T) {
	s, err := store.New(&store.RuntimePayload{Production: true}, store.Options{Emitter: events.NewEmitter()})
	require.NoError(t, err)
	ed := editor.New(s, &testcomponents.Saver{}, &dialogs.Recorder{})
	r := testcomponents.NewTestRenderer(&editor.EditBar{Editor: ed}, nil)

	r.RenderRoot()

	assert.Equal(t, "", r.HTML())
}
