// Package store declares the storage collaborators field types read from:
// field definitions with their ordered options, stored values keyed by field
// and subject, and taxonomies with their terms. Implementations live in the
// memory and sqlstore subpackages; hosts can supply their own.
package store

import (
	"context"
	"errors"
	"sort"

	"github.com/goliatone/go-profilefields/pkg/field"
)

// ErrNotFound is returned when a lookup has no match.
var ErrNotFound = errors.New("store: not found")

// FieldStore resolves field definitions. The returned definition carries its
// persisted options in storage order.
type FieldStore interface {
	Field(ctx context.Context, id int64) (field.Definition, error)
}

// FieldLister is implemented by stores that can enumerate definitions.
type FieldLister interface {
	Fields(ctx context.Context) ([]field.Definition, error)
}

// ValueStore resolves the stored value of one field for one subject.
type ValueStore interface {
	Value(ctx context.Context, fieldID, subjectID int64) (string, error)
}

// Taxonomy is a named term vocabulary.
type Taxonomy struct {
	Name    string `json:"name" yaml:"name"`
	Label   string `json:"label" yaml:"label"`
	Public  bool   `json:"public" yaml:"public"`
	Builtin bool   `json:"builtin,omitempty" yaml:"builtin,omitempty"`
}

// Term is one entry of a taxonomy.
type Term struct {
	ID       int64  `json:"id" yaml:"id"`
	Taxonomy string `json:"taxonomy" yaml:"taxonomy"`
	Name     string `json:"name" yaml:"name"`
	Slug     string `json:"slug,omitempty" yaml:"slug,omitempty"`
}

// TaxonomyStore resolves taxonomies and terms.
type TaxonomyStore interface {
	Taxonomies(ctx context.Context) ([]Taxonomy, error)
	// Terms lists the terms of taxonomy, including terms with no usage.
	Terms(ctx context.Context, taxonomy string) ([]Term, error)
	// Term looks a term up by id regardless of taxonomy.
	Term(ctx context.Context, id int64) (Term, error)
}

// OptionWriter persists the options of an existing field, assigning
// storage ids. It returns the saved options in order.
type OptionWriter interface {
	ReplaceOptions(ctx context.Context, fieldID int64, opts []field.Option) ([]field.Option, error)
}

// ValueWriter persists the value of one field for one subject.
type ValueWriter interface {
	SaveValue(ctx context.Context, fieldID, subjectID int64, value string) error
}

// Store bundles every collaborator.
type Store interface {
	FieldStore
	ValueStore
	TaxonomyStore
}

// CustomTaxonomies keeps public, non built-in taxonomies sorted by name.
func CustomTaxonomies(all []Taxonomy) []Taxonomy {
	out := make([]Taxonomy, 0, len(all))
	for _, tax := range all {
		if !tax.Public || tax.Builtin {
			continue
		}
		out = append(out, tax)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
