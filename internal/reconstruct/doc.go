// Package reconstruct rebuilds nested field groups from a normalized flat store.
//
// Two encodings are recognized, both produced by the host platform's custom
// field layer:
//
// Flexible content. The root key holds the list of row layouts and every
// field of row i is stored under "<root>_<i>_<field>":
//
//	sections            = ["hero", "text"]
//	sections_0_title    = "Hi"
//	sections_1_body     = "Lorem"
//
// Repeaters. The root key holds the number of rows and fields follow the
// same "<root>_<i>_<field>" convention:
//
//	blocks              = "2"
//	blocks_0_title      = "A"
//	blocks_1_title      = "B"
//
// Keys are evaluated shortest first, so that an outer group claims the keys
// of the groups nested in its rows before those could be mistaken for
// top-level roots. Every reconstructed row is reconstructed again, which
// resolves arbitrarily deep nesting up to the configured depth ceiling.
//
// A counter is only accepted when rows 0..N-1 all have at least one field.
// Incidental integers (identifiers, timestamps) therefore stay scalars, at
// the price of rejecting repeaters whose rows have no stored fields at all.
package reconstruct
