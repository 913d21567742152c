// Package codec reads flat metadata stores and writes mapped trees in
// JSON, YAML or CBOR.
//
// CBOR output uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys and smallest integer encoding, so equal trees produce equal
// bytes. JSON input may carry comments and trailing commas (JSONC).
package codec
