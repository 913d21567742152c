package entity

import (
	"fmt"
	"maps"
	"slices"

	"metatree/internal/mapper"
	"metatree/primitive"
)

// ErrNotFound is returned by repositories for unknown records. It wraps
// mapper.ErrMissingObject so mapping turns it into an absent value.
var ErrNotFound = fmt.Errorf("record %w", mapper.ErrMissingObject)

// Kind is the storage kind of a record.
type Kind string

const (
	KindPost    Kind = "post"
	KindTerm    Kind = "term"
	KindUser    Kind = "user"
	KindComment Kind = "comment"
)

// Record is one stored object with its flat metadata.
type Record struct {
	Kind Kind
	ID   int64
	// Data holds the object's own columns (post_title, user_email, ...).
	Data map[string]any
	// Meta is the raw flat metadata store of the object.
	Meta map[string]any
	// Terms lists assigned term IDs per taxonomy, for posts.
	Terms map[string][]int64
}

// idColumns names the data column holding the ID of each kind.
var idColumns = map[Kind]string{
	KindPost:    "ID",
	KindTerm:    "term_id",
	KindUser:    "ID",
	KindComment: "comment_ID",
}

// Taxonomy returns the taxonomy column of a term record.
func (r *Record) Taxonomy() string {
	return primitive.String(r.Data["taxonomy"])
}

// Repository supplies records and site options.
type Repository interface {
	Find(kind Kind, id int64) (*Record, error)
	Options() (map[string]any, error)
}

// MemoryRepository is a Repository backed by maps.
type MemoryRepository struct {
	records map[Kind]map[int64]*Record
	options map[string]any
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[Kind]map[int64]*Record),
		options: make(map[string]any),
	}
}

// Add stores records, replacing earlier ones with the same kind and ID.
// The ID column of the record data is filled in when missing.
func (r *MemoryRepository) Add(records ...*Record) *MemoryRepository {
	for _, rec := range records {
		if rec.Data == nil {
			rec.Data = make(map[string]any)
		}

		if column, ok := idColumns[rec.Kind]; ok {
			if _, set := rec.Data[column]; !set {
				rec.Data[column] = rec.ID
			}
		}

		byID, ok := r.records[rec.Kind]
		if !ok {
			byID = make(map[int64]*Record)
			r.records[rec.Kind] = byID
		}

		byID[rec.ID] = rec
	}

	return r
}

// SetOption stores a raw site option.
func (r *MemoryRepository) SetOption(key string, value any) *MemoryRepository {
	r.options[key] = value
	return r
}

// SetOptions stores raw site options.
func (r *MemoryRepository) SetOptions(options map[string]any) *MemoryRepository {
	maps.Copy(r.options, options)
	return r
}

// Find implements Repository.
func (r *MemoryRepository) Find(kind Kind, id int64) (*Record, error) {
	rec, ok := r.records[kind][id]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}

	return rec, nil
}

// Options implements Repository.
func (r *MemoryRepository) Options() (map[string]any, error) {
	return maps.Clone(r.options), nil
}

// IDs returns the stored IDs of a kind, sorted.
func (r *MemoryRepository) IDs(kind Kind) []int64 {
	return slices.Sorted(maps.Keys(r.records[kind]))
}
