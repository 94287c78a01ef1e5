package editor

import (
	"context"
	"fmt"

	"github.com/vcrobe/nojs-render/console"
	"github.com/vcrobe/nojs-render/registry"
	"github.com/vcrobe/nojs-render/runtime"
	"github.com/vcrobe/nojs-render/store"
	"github.com/vcrobe/nojs-render/vdom"
)

// EditBar is the editing toolbar. With no edit target it shows the edit
// mode toggle; with one it shows the target's schema fields and the save
// and cancel actions. It renders nothing in production.
type EditBar struct {
	runtime.ComponentBase
	Editor *Editor

	unsubscribe func()
}

// OnInit follows the edit target.
func (b *EditBar) OnInit() {
	b.unsubscribe = b.Editor.store.EditTarget().Subscribe(b.StateHasChanged)
}

// OnDestroy implements runtime.Cleaner.
func (b *EditBar) OnDestroy() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// ApplyProps implements runtime.PropUpdater.
func (b *EditBar) ApplyProps(next runtime.Component) {
	b.Editor = next.(*EditBar).Editor
}

// ToggleEditMode flips edit mode and re-renders the bar.
func (b *EditBar) ToggleEditMode() {
	b.Editor.store.ToggleEditMode()
	b.StateHasChanged()
}

// Save commits the open draft.
func (b *EditBar) Save() {
	go func() {
		if err := b.Editor.Commit(context.Background(), nil); err != nil {
			console.Warn("[editor]", err)
		}
	}()
}

// Cancel drops the open draft.
func (b *EditBar) Cancel() {
	if err := b.Editor.Cancel(); err != nil {
		console.Warn("[editor]", err)
	}
}

// schema returns the editable fields of a component, preferring the
// registered schema over the runtime descriptor.
func (b *EditBar) schema(componentID string) *registry.Schema {
	s := b.Editor.store
	if reg := s.Registry(); reg != nil {
		if entry, ok := reg.Lookup(componentID); ok && entry.Schema != nil {
			return entry.Schema
		}
	}
	if d, ok := s.Component(componentID); ok {
		return d.Schema
	}
	return nil
}

// Render implements runtime.Component.
func (b *EditBar) Render(r runtime.Renderer) *vdom.VNode {
	s := b.Editor.store
	if s.Production() {
		return nil
	}

	sess, open := b.Editor.Current()
	if !open {
		label := "Edit"
		if s.EditMode() {
			label = "Done"
		}
		return vdom.Div(map[string]any{"class": "EditBar"},
			vdom.Button(label, map[string]any{"class": "EditBar-toggle", "onClick": b.ToggleEditMode}))
	}

	title := sess.Component
	schema := b.schema(sess.Component)
	if schema != nil && schema.Title != "" {
		title = schema.Title
	}
	children := []*vdom.VNode{
		vdom.Heading(3, title, nil),
		vdom.Paragraph(sess.TreePath, map[string]any{"class": "EditBar-path"}),
	}
	draft := sess.Draft()
	if schema != nil {
		for _, f := range schema.Fields {
			children = append(children, b.field(f, draft))
		}
	}
	children = append(children,
		vdom.Button("Save", map[string]any{"class": "EditBar-save", "onClick": b.Save}),
		vdom.Button("Cancel", map[string]any{"class": "EditBar-cancel", "onClick": b.Cancel}),
	)
	return vdom.Div(map[string]any{"class": "EditBar EditBar--open", "data-session": sess.ID.String()}, children...)
}

// SetField writes an edited field into the open draft.
func (b *EditBar) SetField(name, value string) {
	if err := b.Editor.SetField(name, value); err != nil {
		console.Warn("[editor]", err)
	}
}

func (b *EditBar) field(f registry.Field, draft store.Props) *vdom.VNode {
	label := f.Title
	if label == "" {
		label = f.Name
	}
	value, ok := draft[f.Name]
	if !ok {
		value = f.Default
	}
	name := f.Name
	input := vdom.InputText(map[string]any{
		"name":    name,
		"onInput": func(v string) { b.SetField(name, v) },
	})
	if value != nil {
		input.SetContent(fmt.Sprint(value))
	}
	return vdom.NewVNode("label", map[string]any{"class": "EditBar-field"}, []*vdom.VNode{vdom.Span(label, nil), input}, "")
}
