// Package hooks provides the named filter registry that "filter:name"
// mapping targets and entity property hooks are applied through.
//
// Filters registered under one name run in ascending priority order,
// each receiving the previous filter's result. Filters sharing a
// priority run in registration order. Applying a name nothing is
// registered under returns the value unchanged.
package hooks
