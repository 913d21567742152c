package entity

import (
	"fmt"
	"maps"

	"metatree/internal/flatstore"
)

// Widget is a widget instance. Its fields come from the instance settings
// and from the site options stored under the widget's key prefix.
type Widget struct {
	*Item
	widgetID string
}

// Widget builds the widget with the given ID from its instance settings.
func (env *Env) Widget(id string, instance map[string]any) (*Widget, error) {
	options, err := env.repo.Options()
	if err != nil {
		return nil, fmt.Errorf("widget %s options: %w", id, err)
	}

	meta := flatstore.Scope(options, flatstore.WidgetKeyPrefix(id))
	maps.Copy(meta, instance)

	tree, err := env.Tree(meta)
	if err != nil {
		return nil, fmt.Errorf("widget %s: %w", id, err)
	}

	w := &Widget{Item: newItem(env, "Widget", nil, tree), widgetID: id}
	w.extend(w)

	return w, nil
}

// WidgetID returns the widget identifier, such as "text-3".
func (w *Widget) WidgetID() string {
	return w.widgetID
}
