// Package memory provides an in-process store.Store suitable for tests,
// demos and hosts that keep their field catalog in fixture files.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/store"
)

type valueKey struct {
	fieldID   int64
	subjectID int64
}

// Store keeps definitions, values and taxonomies in maps guarded by a
// read/write mutex.
type Store struct {
	mu         sync.RWMutex
	fields     map[int64]field.Definition
	values     map[valueKey]string
	taxonomies map[string]store.Taxonomy
	terms      map[int64]store.Term
}

var (
	_ store.Store        = (*Store)(nil)
	_ store.FieldLister  = (*Store)(nil)
	_ store.OptionWriter = (*Store)(nil)
	_ store.ValueWriter  = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		fields:     make(map[int64]field.Definition),
		values:     make(map[valueKey]string),
		taxonomies: make(map[string]store.Taxonomy),
		terms:      make(map[int64]store.Term),
	}
}

// PutField inserts or replaces a definition.
func (s *Store) PutField(def field.Definition) error {
	if def.ID <= 0 {
		return fmt.Errorf("memory: field id must be positive, got %d", def.ID)
	}
	if strings.TrimSpace(def.Type) == "" {
		return fmt.Errorf("memory: field %d has no type", def.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[def.ID] = def.Clone()
	return nil
}

// PutValue stores the value of fieldID for subjectID.
func (s *Store) PutValue(fieldID, subjectID int64, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[valueKey{fieldID: fieldID, subjectID: subjectID}] = value
}

// SaveValue implements store.ValueWriter.
func (s *Store) SaveValue(_ context.Context, fieldID, subjectID int64, value string) error {
	if fieldID <= 0 || subjectID <= 0 {
		return fmt.Errorf("memory: field and subject ids must be positive, got %d/%d", fieldID, subjectID)
	}
	s.PutValue(fieldID, subjectID, value)
	return nil
}

// ReplaceOptions implements store.OptionWriter. New ids continue after the
// highest option id held by any field.
func (s *Store) ReplaceOptions(_ context.Context, fieldID int64, opts []field.Option) ([]field.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.fields[fieldID]
	if !ok {
		return nil, fmt.Errorf("memory: field %d: %w", fieldID, store.ErrNotFound)
	}

	var next int64
	for _, existing := range s.fields {
		for _, opt := range existing.Options {
			next = max(next, opt.ID)
		}
	}

	var saved []field.Option
	for _, opt := range opts {
		next++
		opt.ID = next
		saved = append(saved, opt)
	}
	def.Options = saved
	s.fields[fieldID] = def
	return slices.Clone(saved), nil
}

// PutTaxonomy inserts or replaces a taxonomy.
func (s *Store) PutTaxonomy(tax store.Taxonomy) error {
	name := strings.TrimSpace(tax.Name)
	if name == "" {
		return fmt.Errorf("memory: taxonomy name is required")
	}
	tax.Name = name
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taxonomies[name] = tax
	return nil
}

// PutTerm inserts or replaces a term. Its taxonomy must already exist.
func (s *Store) PutTerm(term store.Term) error {
	if term.ID <= 0 {
		return fmt.Errorf("memory: term id must be positive, got %d", term.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.taxonomies[term.Taxonomy]; !ok {
		return fmt.Errorf("memory: term %d references unknown taxonomy %q", term.ID, term.Taxonomy)
	}
	s.terms[term.ID] = term
	return nil
}

// Field implements store.FieldStore.
func (s *Store) Field(_ context.Context, id int64) (field.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.fields[id]
	if !ok {
		return field.Definition{}, fmt.Errorf("memory: field %d: %w", id, store.ErrNotFound)
	}
	return def.Clone(), nil
}

// Fields lists every definition ordered by id.
func (s *Store) Fields(context.Context) ([]field.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]field.Definition, 0, len(s.fields))
	for _, def := range s.fields {
		out = append(out, def.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Value implements store.ValueStore.
func (s *Store) Value(_ context.Context, fieldID, subjectID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[valueKey{fieldID: fieldID, subjectID: subjectID}]
	if !ok {
		return "", fmt.Errorf("memory: value %d/%d: %w", fieldID, subjectID, store.ErrNotFound)
	}
	return value, nil
}

// Taxonomies implements store.TaxonomyStore.
func (s *Store) Taxonomies(context.Context) ([]store.Taxonomy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Taxonomy, 0, len(s.taxonomies))
	for _, tax := range s.taxonomies {
		out = append(out, tax)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Terms implements store.TaxonomyStore. Terms are ordered by name.
func (s *Store) Terms(_ context.Context, taxonomy string) ([]store.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Term
	for _, term := range s.terms {
		if term.Taxonomy == taxonomy {
			out = append(out, term)
		}
	}
	slices.SortFunc(out, compareTerms)
	return out, nil
}

// Term implements store.TaxonomyStore.
func (s *Store) Term(_ context.Context, id int64) (store.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	term, ok := s.terms[id]
	if !ok {
		return store.Term{}, fmt.Errorf("memory: term %d: %w", id, store.ErrNotFound)
	}
	return term, nil
}

func compareTerms(a, b store.Term) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}
