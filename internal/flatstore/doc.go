// Package flatstore holds the flat key/value metadata of a host entity and
// normalizes it before reconstruction.
//
// The persistence layer hands out every value as a list of strings, most of
// them with a single element, and stores structured values serialized.
// Normalize collapses the single-element wrappers and decodes serialized
// values so that the reconstructor only sees scalars and decoded structures.
//
// Scope and Promote slice a shared store by key prefix, the way site options
// carry the metadata of terms ("<taxonomy>_<term_id>_") and widgets
// ("widget_<id>_") and expose option-page fields ("options_").
package flatstore
