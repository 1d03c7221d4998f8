package sqlstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/store"
	"github.com/goliatone/go-profilefields/pkg/store/sqlstore"
)

func newStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()

	s, err := sqlstore.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate twice: %v", err)
	}
	return s
}

func TestStore_FieldRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	saved, err := s.SaveField(ctx, field.Definition{
		ID:       3,
		Type:     "slider",
		Name:     "Age",
		Required: true,
		Options: []field.Option{
			{ID: field.OptionIDTransient, Name: "min_18"},
			{ID: field.OptionIDTransient, Name: "max_99", IsDefault: true},
		},
	})
	if err != nil {
		t.Fatalf("save field: %v", err)
	}
	for _, opt := range saved.Options {
		if !opt.Persisted() {
			t.Fatalf("expected saved options to carry ids, got %#v", saved.Options)
		}
	}

	got, err := s.Field(ctx, 3)
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if diff := cmp.Diff(saved, got); diff != "" {
		t.Fatalf("definition mismatch (-want +got):\n%s", diff)
	}
	if got.Options[0].Name != "min_18" || !got.Options[1].IsDefault {
		t.Fatalf("options lost their order or flags: %#v", got.Options)
	}

	replaced, err := s.ReplaceOptions(ctx, 3, []field.Option{{Name: "min_0"}})
	if err != nil {
		t.Fatalf("replace options: %v", err)
	}
	got, _ = s.Field(ctx, 3)
	if diff := cmp.Diff(replaced, got.Options); diff != "" {
		t.Fatalf("replaced options mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.ReplaceOptions(ctx, 99, nil); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown field, got %v", err)
	}

	fields, err := s.Fields(ctx)
	if err != nil || len(fields) != 1 || len(fields[0].Options) != 1 {
		t.Fatalf("fields listing: %#v %v", fields, err)
	}
}

func TestStore_Values(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if _, err := s.Value(ctx, 1, 1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SaveValue(ctx, 1, 1, "ff0000"); err != nil {
		t.Fatalf("save value: %v", err)
	}
	if err := s.SaveValue(ctx, 1, 1, "00ff00"); err != nil {
		t.Fatalf("overwrite value: %v", err)
	}
	got, err := s.Value(ctx, 1, 1)
	if err != nil || got != "00ff00" {
		t.Fatalf("value: %q %v", got, err)
	}
}

func TestStore_Taxonomies(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, tax := range []store.Taxonomy{
		{Name: "genre", Label: "Genres", Public: true},
		{Name: "category", Label: "Categories", Public: true, Builtin: true},
	} {
		if err := s.SaveTaxonomy(ctx, tax); err != nil {
			t.Fatalf("save taxonomy: %v", err)
		}
	}
	for _, term := range []store.Term{
		{ID: 11, Taxonomy: "genre", Name: "Jazz"},
		{ID: 10, Taxonomy: "genre", Name: "Blues"},
	} {
		if err := s.SaveTerm(ctx, term); err != nil {
			t.Fatalf("save term: %v", err)
		}
	}
	if err := s.SaveTerm(ctx, store.Term{ID: 12, Taxonomy: "missing", Name: "x"}); err == nil {
		t.Fatalf("expected foreign key violation for unknown taxonomy")
	}

	all, err := s.Taxonomies(ctx)
	if err != nil {
		t.Fatalf("taxonomies: %v", err)
	}
	want := []store.Taxonomy{
		{Name: "category", Label: "Categories", Public: true, Builtin: true},
		{Name: "genre", Label: "Genres", Public: true},
	}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Fatalf("taxonomies mismatch (-want +got):\n%s", diff)
	}

	terms, err := s.Terms(ctx, "genre")
	if err != nil {
		t.Fatalf("terms: %v", err)
	}
	if len(terms) != 2 || terms[0].Name != "Blues" {
		t.Fatalf("expected terms ordered by name, got %#v", terms)
	}

	term, err := s.Term(ctx, 11)
	if err != nil || term.Taxonomy != "genre" {
		t.Fatalf("term: %#v %v", term, err)
	}
	if _, err := s.Term(ctx, 404); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpen_RequiresDSN(t *testing.T) {
	if _, err := sqlstore.Open(context.Background(), " "); err == nil {
		t.Fatalf("expected empty dsn to fail")
	}
}
