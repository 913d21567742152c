// Package mapper maps raw metadata values through mapping schemas.
//
// An Engine resolves the targets of a schema entry against its Registry:
// aliases, constructible types and their static methods, and free
// functions. "filter:name" targets are delegated to an injected
// FilterApplier. Targets nothing resolves leave the value unchanged.
//
// Lists mapped through a nested schema become a *Sequence that maps each
// row on first access and caches it.
package mapper
