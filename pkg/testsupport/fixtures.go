package testsupport

import (
	"context"
	"embed"
	"io/fs"
	"os"
	"testing"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/fieldtypes"
	"github.com/goliatone/go-profilefields/pkg/store/memory"
)

// Fixture ids seeded by Store.
const (
	ColorFieldID        int64 = 1
	ConfirmationFieldID int64 = 2
	SliderFieldID       int64 = 3
	TaxonomyFieldID     int64 = 4
	SubjectID           int64 = 100
)

//go:embed fixtures/*
var fixtures embed.FS

// FixturesFS exposes the seeded fixture files.
func FixturesFS() fs.FS {
	sub, err := fs.Sub(fixtures, "fixtures")
	if err != nil {
		panic(err)
	}
	return sub
}

// Store returns a memory store loaded with the shared fixtures: one field of
// each type, the genre taxonomy and the values of SubjectID.
func Store(t *testing.T) *memory.Store {
	t.Helper()

	s, err := memory.LoadFS(FixturesFS())
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	return s
}

// Registry returns the default field types wired to the fixture store.
// Extra options are applied after the store.
func Registry(t *testing.T, opts ...fieldtypes.Option) (*field.Registry, *memory.Store) {
	t.Helper()

	s := Store(t)
	reg, err := fieldtypes.NewRegistry(append([]fieldtypes.Option{fieldtypes.WithStore(s)}, opts...)...)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg, s
}

// Field fetches a fixture definition.
func Field(t *testing.T, s *memory.Store, id int64) field.Definition {
	t.Helper()

	def, err := s.Field(Context(), id)
	if err != nil {
		t.Fatalf("field %d: %v", id, err)
	}
	return def
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}
