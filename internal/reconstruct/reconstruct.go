package reconstruct

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"metatree/internal/flatstore"
)

// DefaultMaxDepth bounds the nesting of reconstructed groups.
const DefaultMaxDepth = 32

// ErrRecursionLimit is returned when groups nest deeper than the configured ceiling.
var ErrRecursionLimit = errors.New("recursion limit exceeded")

// Reconstructor turns normalized flat stores into row trees.
// It holds no state between calls.
type Reconstructor struct {
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithMaxDepth sets the nesting ceiling. Values below one are ignored.
func WithMaxDepth(depth int) Option {
	return func(r *Reconstructor) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used for detection decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconstructor) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Reconstructor.
func New(opts ...Option) *Reconstructor {
	r := &Reconstructor{
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Reconstruct builds the row tree of a normalized store. Values that are
// already nodes are kept as they are, lists among them are final.
func (r *Reconstructor) Reconstruct(store flatstore.Store) (*Row, error) {
	return r.build(store, "", "", 0)
}

// ReconstructRow runs reconstruction over the fields of an existing row.
// On a row produced by Reconstruct this is a no-op.
func (r *Reconstructor) ReconstructRow(row *Row) (*Row, error) {
	if row == nil {
		return nil, nil
	}

	store := make(flatstore.Store, len(row.Fields))
	for key, n := range row.Fields {
		store[key] = n
	}

	return r.build(store, row.Type, "", 0)
}

// rowData collects the flat fields of one row before it is built.
type rowData struct {
	typ    string
	fields flatstore.Store
}

func (r *Reconstructor) build(fields flatstore.Store, typ, path string, depth int) (*Row, error) {
	if depth > r.maxDepth {
		return nil, fmt.Errorf("%w: more than %d levels at %q", ErrRecursionLimit, r.maxDepth, path)
	}

	s := newScan(fields)
	s.detectFlexible(r.logger)
	s.detectRepeaters(r.logger)

	out := NewRow(typ)

	for _, key := range s.keys {
		if s.consumed[key] != "" {
			continue
		}

		rows, isGroup := s.groups[key]
		if !isGroup {
			out.Fields[key] = asNode(fields[key])
			continue
		}

		list := make(List, len(rows))
		for i, data := range rows {
			child, err := r.build(data.fields, data.typ, path+key+"."+strconv.Itoa(i)+".", depth+1)
			if err != nil {
				return nil, err
			}

			list[i] = child
		}

		out.Fields[key] = list
	}

	return out, nil
}
