package common

import "strings"

// UnknownStr is printed for enum values outside their declared range.
const UnknownStr = "unknown"

// Basename returns the last element of a namespaced type name.
// Both `\` and `/` separate namespaces, so `Rila\User` and `rila/User` yield "User".
func Basename(name string) string {
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		return name[i+1:]
	}

	return name
}
