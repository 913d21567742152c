package flatstore

import (
	"strconv"
	"strings"
)

const (
	// OptionsPrefix marks option-page fields within the site options.
	OptionsPrefix = "options_"
	// WidgetPrefix starts the option keys that carry widget fields.
	WidgetPrefix = "widget_"
)

// TermPrefix returns the option key prefix under which the fields of a
// term are stored.
func TermPrefix(taxonomy string, termID int64) string {
	return taxonomy + "_" + strconv.FormatInt(termID, 10) + "_"
}

// WidgetKeyPrefix returns the option key prefix of a widget instance.
func WidgetKeyPrefix(widgetID string) string {
	return WidgetPrefix + widgetID + "_"
}

// Scope returns the entries whose keys start with prefix, with the prefix removed.
func Scope[V any](m map[string]V, prefix string) map[string]V {
	scoped := make(map[string]V)
	for key, value := range m {
		if rest, ok := strings.CutPrefix(key, prefix); ok && rest != "" {
			scoped[rest] = value
		}
	}

	return scoped
}

// Promote returns all entries, with the prefixed ones additionally exposed
// under their unprefixed key. Promoted entries win over existing keys and
// the prefixed originals are dropped.
func Promote[V any](m map[string]V, prefix string) map[string]V {
	promoted := make(map[string]V, len(m))
	for key, value := range m {
		if !strings.HasPrefix(key, prefix) {
			promoted[key] = value
		}
	}

	for key, value := range m {
		if rest, ok := strings.CutPrefix(key, prefix); ok && rest != "" {
			promoted[rest] = value
		}
	}

	return promoted
}
