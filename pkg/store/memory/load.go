package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/store"
)

type fixtureFile struct {
	Taxonomies []store.Taxonomy   `json:"taxonomies" yaml:"taxonomies"`
	Terms      []store.Term       `json:"terms" yaml:"terms"`
	Fields     []field.Definition `json:"fields" yaml:"fields"`
	Values     []valueFixture     `json:"values" yaml:"values"`
}

type valueFixture struct {
	FieldID   int64  `json:"field_id" yaml:"field_id"`
	SubjectID int64  `json:"subject_id" yaml:"subject_id"`
	Value     string `json:"value" yaml:"value"`
}

// LoadFS walks fsys and loads every JSON/YAML fixture file into a new
// store. Files are visited in lexical order; taxonomies are applied before
// terms so a term may reference a taxonomy declared in an earlier file.
// A nil fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	s := New()
	if fsys == nil {
		return s, nil
	}

	var docs []fixtureFile
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFixtureFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("memory: read %s: %w", path, err)
		}
		doc, err := parseFixture(data, path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		for _, tax := range doc.Taxonomies {
			if err := s.PutTaxonomy(tax); err != nil {
				return nil, err
			}
		}
	}
	for _, doc := range docs {
		for _, term := range doc.Terms {
			if err := s.PutTerm(term); err != nil {
				return nil, err
			}
		}
		for _, def := range doc.Fields {
			if _, err := s.Field(context.Background(), def.ID); err == nil {
				return nil, fmt.Errorf("memory: duplicate field %d", def.ID)
			}
			if err := s.PutField(def); err != nil {
				return nil, err
			}
		}
		for _, v := range doc.Values {
			s.PutValue(v.FieldID, v.SubjectID, v.Value)
		}
	}
	return s, nil
}

func parseFixture(data []byte, source string) (fixtureFile, error) {
	var doc fixtureFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return fixtureFile{}, fmt.Errorf("memory: file %s is empty", source)
	}

	var err error
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = fmt.Errorf("unsupported extension %q", filepath.Ext(source))
	}
	if err != nil {
		return fixtureFile{}, fmt.Errorf("memory: parse %s: %w", source, err)
	}
	return doc, nil
}

func isFixtureFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
