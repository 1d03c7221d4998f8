// Package sqlstore implements store.Store on database/sql. Open wires the
// pure-Go SQLite driver; New accepts any *sql.DB whose dialect understands
// the "?" placeholder and the schema created by Migrate.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/store"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS fields (
	id          INTEGER PRIMARY KEY,
	group_id    INTEGER NOT NULL DEFAULT 0,
	type        TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	required    INTEGER NOT NULL DEFAULT 0,
	autolink    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS field_options (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	field_id     INTEGER NOT NULL REFERENCES fields(id) ON DELETE CASCADE,
	name         TEXT NOT NULL DEFAULT '',
	is_default   INTEGER NOT NULL DEFAULT 0,
	option_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_field_options_field
	ON field_options (field_id, option_order);

CREATE TABLE IF NOT EXISTS field_values (
	field_id   INTEGER NOT NULL,
	subject_id INTEGER NOT NULL,
	value      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (field_id, subject_id)
);

CREATE TABLE IF NOT EXISTS taxonomies (
	name    TEXT PRIMARY KEY,
	label   TEXT NOT NULL DEFAULT '',
	public  INTEGER NOT NULL DEFAULT 1,
	builtin INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS terms (
	id       INTEGER PRIMARY KEY,
	taxonomy TEXT NOT NULL REFERENCES taxonomies(name) ON DELETE CASCADE,
	name     TEXT NOT NULL,
	slug     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_terms_taxonomy ON terms (taxonomy, name);
`

// Store is a SQL-backed store.Store.
type Store struct {
	db *sql.DB
}

var (
	_ store.Store        = (*Store)(nil)
	_ store.FieldLister  = (*Store)(nil)
	_ store.OptionWriter = (*Store)(nil)
	_ store.ValueWriter  = (*Store)(nil)
)

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens a SQLite database at dsn, enables foreign keys and limits the
// pool to one connection so ":memory:" databases stay consistent.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqlstore: dsn is required")
	}
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: enable foreign keys: %w", err)
	}
	return New(db), nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return nil
}

// Field implements store.FieldStore.
func (s *Store) Field(ctx context.Context, id int64) (field.Definition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, type, name, description, required, autolink
		FROM fields WHERE id = ?`, id)

	def, err := scanDefinition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return field.Definition{}, fmt.Errorf("sqlstore: field %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return field.Definition{}, fmt.Errorf("sqlstore: field %d: %w", id, err)
	}

	opts, err := s.options(ctx, id)
	if err != nil {
		return field.Definition{}, err
	}
	def.Options = opts
	return def, nil
}

// Fields lists every definition ordered by id.
func (s *Store) Fields(ctx context.Context) ([]field.Definition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, type, name, description, required, autolink
		FROM fields ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list fields: %w", err)
	}
	defer rows.Close()

	var out []field.Definition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scan field: %w", err)
		}
		out = append(out, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: list fields: %w", err)
	}
	rows.Close()

	for i := range out {
		opts, err := s.options(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Options = opts
	}
	return out, nil
}

func (s *Store) options(ctx context.Context, fieldID int64) ([]field.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, is_default FROM field_options
		WHERE field_id = ? ORDER BY option_order, id`, fieldID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: options of field %d: %w", fieldID, err)
	}
	defer rows.Close()

	var out []field.Option
	for rows.Next() {
		var (
			opt       field.Option
			isDefault int
		)
		if err := rows.Scan(&opt.ID, &opt.Name, &isDefault); err != nil {
			return nil, fmt.Errorf("sqlstore: scan option: %w", err)
		}
		opt.IsDefault = isDefault != 0
		out = append(out, opt)
	}
	return out, rows.Err()
}

// SaveField upserts a definition and replaces its options. Options are
// stored in slice order and receive fresh identifiers; the saved definition
// is returned.
func (s *Store) SaveField(ctx context.Context, def field.Definition) (field.Definition, error) {
	if def.ID <= 0 {
		return field.Definition{}, fmt.Errorf("sqlstore: field id must be positive, got %d", def.ID)
	}
	if strings.TrimSpace(def.Type) == "" {
		return field.Definition{}, fmt.Errorf("sqlstore: field %d has no type", def.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return field.Definition{}, fmt.Errorf("sqlstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fields (id, group_id, type, name, description, required, autolink)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			group_id = excluded.group_id,
			type = excluded.type,
			name = excluded.name,
			description = excluded.description,
			required = excluded.required,
			autolink = excluded.autolink`,
		def.ID, def.GroupID, def.Type, def.Name, def.Description, boolInt(def.Required), boolInt(def.AutoLink))
	if err != nil {
		return field.Definition{}, fmt.Errorf("sqlstore: save field %d: %w", def.ID, err)
	}

	saved, err := replaceOptions(ctx, tx, def.ID, def.Options)
	if err != nil {
		return field.Definition{}, err
	}
	if err := tx.Commit(); err != nil {
		return field.Definition{}, fmt.Errorf("sqlstore: commit: %w", err)
	}

	def = def.Clone()
	def.Options = saved
	return def, nil
}

// ReplaceOptions swaps the options of an existing field, for example with a
// list synthesized from an admin submission.
func (s *Store) ReplaceOptions(ctx context.Context, fieldID int64, opts []field.Option) ([]field.Option, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM fields WHERE id = ?`, fieldID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: field %d: %w", fieldID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("sqlstore: field %d: %w", fieldID, store.ErrNotFound)
	}

	saved, err := replaceOptions(ctx, tx, fieldID, opts)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlstore: commit: %w", err)
	}
	return saved, nil
}

func replaceOptions(ctx context.Context, tx *sql.Tx, fieldID int64, opts []field.Option) ([]field.Option, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM field_options WHERE field_id = ?`, fieldID); err != nil {
		return nil, fmt.Errorf("sqlstore: clear options of field %d: %w", fieldID, err)
	}

	saved := make([]field.Option, 0, len(opts))
	for i, opt := range opts {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO field_options (field_id, name, is_default, option_order)
			VALUES (?, ?, ?, ?)`,
			fieldID, opt.Name, boolInt(opt.IsDefault), i)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: save option %d of field %d: %w", i, fieldID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("sqlstore: option id: %w", err)
		}
		opt.ID = id
		saved = append(saved, opt)
	}
	if len(saved) == 0 {
		return nil, nil
	}
	return saved, nil
}

// Value implements store.ValueStore.
func (s *Store) Value(ctx context.Context, fieldID, subjectID int64) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM field_values WHERE field_id = ? AND subject_id = ?`,
		fieldID, subjectID).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("sqlstore: value %d/%d: %w", fieldID, subjectID, store.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("sqlstore: value %d/%d: %w", fieldID, subjectID, err)
	}
	return value, nil
}

// SaveValue upserts the value of fieldID for subjectID.
func (s *Store) SaveValue(ctx context.Context, fieldID, subjectID int64, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO field_values (field_id, subject_id, value) VALUES (?, ?, ?)
		ON CONFLICT (field_id, subject_id) DO UPDATE SET value = excluded.value`,
		fieldID, subjectID, value)
	if err != nil {
		return fmt.Errorf("sqlstore: save value %d/%d: %w", fieldID, subjectID, err)
	}
	return nil
}

// Taxonomies implements store.TaxonomyStore.
func (s *Store) Taxonomies(ctx context.Context) ([]store.Taxonomy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, label, public, builtin FROM taxonomies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list taxonomies: %w", err)
	}
	defer rows.Close()

	var out []store.Taxonomy
	for rows.Next() {
		var (
			tax             store.Taxonomy
			public, builtin int
		)
		if err := rows.Scan(&tax.Name, &tax.Label, &public, &builtin); err != nil {
			return nil, fmt.Errorf("sqlstore: scan taxonomy: %w", err)
		}
		tax.Public = public != 0
		tax.Builtin = builtin != 0
		out = append(out, tax)
	}
	return out, rows.Err()
}

// SaveTaxonomy upserts a taxonomy.
func (s *Store) SaveTaxonomy(ctx context.Context, tax store.Taxonomy) error {
	name := strings.TrimSpace(tax.Name)
	if name == "" {
		return errors.New("sqlstore: taxonomy name is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO taxonomies (name, label, public, builtin) VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			label = excluded.label,
			public = excluded.public,
			builtin = excluded.builtin`,
		name, tax.Label, boolInt(tax.Public), boolInt(tax.Builtin))
	if err != nil {
		return fmt.Errorf("sqlstore: save taxonomy %q: %w", name, err)
	}
	return nil
}

// Terms implements store.TaxonomyStore. Terms are ordered by name.
func (s *Store) Terms(ctx context.Context, taxonomy string) ([]store.Term, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, taxonomy, name, slug FROM terms
		WHERE taxonomy = ? ORDER BY name, id`, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: terms of %q: %w", taxonomy, err)
	}
	defer rows.Close()

	var out []store.Term
	for rows.Next() {
		var term store.Term
		if err := rows.Scan(&term.ID, &term.Taxonomy, &term.Name, &term.Slug); err != nil {
			return nil, fmt.Errorf("sqlstore: scan term: %w", err)
		}
		out = append(out, term)
	}
	return out, rows.Err()
}

// Term implements store.TaxonomyStore.
func (s *Store) Term(ctx context.Context, id int64) (store.Term, error) {
	var term store.Term
	err := s.db.QueryRowContext(ctx, `
		SELECT id, taxonomy, name, slug FROM terms WHERE id = ?`, id).
		Scan(&term.ID, &term.Taxonomy, &term.Name, &term.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Term{}, fmt.Errorf("sqlstore: term %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return store.Term{}, fmt.Errorf("sqlstore: term %d: %w", id, err)
	}
	return term, nil
}

// SaveTerm upserts a term. Its taxonomy must exist.
func (s *Store) SaveTerm(ctx context.Context, term store.Term) error {
	if term.ID <= 0 {
		return fmt.Errorf("sqlstore: term id must be positive, got %d", term.ID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO terms (id, taxonomy, name, slug) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			taxonomy = excluded.taxonomy,
			name = excluded.name,
			slug = excluded.slug`,
		term.ID, term.Taxonomy, term.Name, term.Slug)
	if err != nil {
		return fmt.Errorf("sqlstore: save term %d: %w", term.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row rowScanner) (field.Definition, error) {
	var (
		def                field.Definition
		required, autolink int
	)
	err := row.Scan(&def.ID, &def.GroupID, &def.Type, &def.Name, &def.Description, &required, &autolink)
	if err != nil {
		return field.Definition{}, err
	}
	def.Required = required != 0
	def.AutoLink = autolink != 0
	return def, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
