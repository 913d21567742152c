// Package phpserial decodes the PHP serialization format in which the host
// platform persists structured metadata values. Parsing is done by
// github.com/elliotchance/phpserialize; this package adds the shape check,
// the length sanity check and the conversion to plain Go values.
//
// Supported forms:
//
//	N;                  null
//	b:1;                boolean
//	i:42;               integer (decoded as int64)
//	d:1.5;              float
//	s:5:"hello";        byte-counted string
//	a:2:{i:0;...;i:1;...}  array
//	O:8:"stdClass":1:{s:1:"a";i:1;}  object (decoded as its properties)
//
// Arrays whose keys are exactly 0..n-1 decode to []any, every other array
// decodes to map[string]any with integer keys rendered in base 10.
// References (r:, R:) and custom-serialized objects (C:) are rejected.
package phpserial
