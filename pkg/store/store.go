// Package store persists templates and settings in a SQLite database.
//
// Templates carry a schema document plus default variables, tags, and
// usage metadata. Names are unique case-insensitively, enforced by an
// expression index on LOWER(name). All timestamps are RFC 3339 UTC text
// with fixed-width fractional seconds so lexicographic ordering in SQL
// matches chronological ordering.
package store

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/types"
)

// DefaultIconColor is assigned to templates created without a color.
const DefaultIconColor = "#0a84ff"

// timestampLayout is RFC 3339 with nine fractional digits. The fixed
// width keeps TEXT comparisons in ORDER BY clauses chronological.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const templateColumns = "id, name, description, schema_xml, variables, variable_validation, icon_color, is_favorite, use_count, created_at, updated_at, tags"

// Store is a handle to one sprout template database.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the template database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrStore, "failed to create data directory %s", dir)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStore, "failed to open template database %s", path)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn between statements.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, errors.ErrStore, "failed to open template database %s", path)
	}

	s := &Store{db: db, logger: logging.GetLogger("store")}
	if err := s.initTables(); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.logger.Debug().Str("path", path).Msg("template store opened")
	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			schema_xml TEXT NOT NULL,
			variables TEXT DEFAULT '{}',
			variable_validation TEXT DEFAULT '{}',
			icon_color TEXT,
			is_favorite INTEGER DEFAULT 0,
			use_count INTEGER DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			tags TEXT DEFAULT '[]'
		)`,
		// Unique case-insensitive names. Races between an exists check
		// and the insert land here instead of corrupting the table.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_templates_name_lower ON templates (LOWER(name))`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, errors.ErrStore, "failed to initialize template database")
		}
	}
	return nil
}

func nowTimestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// List returns every template, favorites first, then by use count,
// then most recently updated.
func (s *Store) List() ([]*types.Template, error) {
	rows, err := s.db.Query(
		`SELECT ` + templateColumns + ` FROM templates
		 ORDER BY is_favorite DESC, use_count DESC, updated_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to list templates")
	}
	defer rows.Close()

	var templates []*types.Template
	for rows.Next() {
		t, err := s.scanTemplate(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrStore, "failed to read template row")
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to list templates")
	}
	return templates, nil
}

// Get returns the template with the given id.
func (s *Store) Get(id string) (*types.Template, error) {
	row := s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id)
	t, err := s.scanTemplate(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "Template not found: %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to load template")
	}
	return t, nil
}

// GetByName returns the template whose name matches case-insensitively.
func (s *Store) GetByName(name string) (*types.Template, error) {
	row := s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE LOWER(name) = LOWER(?)`, name)
	t, err := s.scanTemplate(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "Template not found: %s", name)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to load template")
	}
	return t, nil
}

// ExistsByName reports whether a template with the name exists,
// matching case-insensitively.
func (s *Store) ExistsByName(name string) (bool, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM templates WHERE LOWER(name) = LOWER(?)`, name).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrStore, "failed to check template name")
	}
	return count > 0, nil
}

// Create stores a new template and returns it with generated fields
// (id, timestamps, defaults) filled in. Tags are validated and
// normalized; invalid tags are dropped.
func (s *Store) Create(input types.CreateTemplateInput) (*types.Template, error) {
	exists, err := s.ExistsByName(input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Newf(errors.ErrTemplateExists, "A template named '%s' already exists", input.Name)
	}

	now := nowTimestamp()
	t := &types.Template{
		ID:                 uuid.NewString(),
		Name:               input.Name,
		Description:        input.Description,
		SchemaXML:          input.SchemaXML,
		Variables:          input.Variables,
		VariableValidation: input.VariableValidation,
		IconColor:          input.IconColor,
		IsFavorite:         input.IsFavorite,
		UseCount:           0,
		CreatedAt:          now,
		UpdatedAt:          now,
		Tags:               validateTags(input.Tags),
	}
	if t.Variables == nil {
		t.Variables = map[string]string{}
	}
	if t.IconColor == "" {
		t.IconColor = DefaultIconColor
	}

	_, err = s.db.Exec(
		`INSERT INTO templates (`+templateColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.SchemaXML,
		encodeVariables(t.Variables), encodeRules(t.VariableValidation),
		t.IconColor, boolToInt(t.IsFavorite), t.UseCount,
		t.CreatedAt, t.UpdatedAt, encodeTags(t.Tags))
	if isUniqueViolation(err) {
		return nil, errors.Newf(errors.ErrTemplateExists, "A template named '%s' already exists", input.Name)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to create template")
	}

	s.logger.Debug().Str("id", t.ID).Str("name", t.Name).Msg("template created")
	return t, nil
}

// Update applies the non-nil fields of input to the template and
// returns the stored result. updated_at is always refreshed.
func (s *Store) Update(id string, input types.UpdateTemplateInput) (*types.Template, error) {
	if input.Name != nil {
		existing, err := s.GetByName(*input.Name)
		if err != nil && !errors.IsErrorCode(err, errors.ErrTemplateNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, errors.Newf(errors.ErrTemplateExists, "A template named '%s' already exists", *input.Name)
		}
	}

	sets := []string{"updated_at = ?"}
	args := []interface{}{nowTimestamp()}
	if input.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *input.Name)
	}
	if input.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *input.Description)
	}
	if input.IconColor != nil {
		sets = append(sets, "icon_color = ?")
		args = append(args, *input.IconColor)
	}
	args = append(args, id)

	_, err := s.db.Exec(`UPDATE templates SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if isUniqueViolation(err) && input.Name != nil {
		return nil, errors.Newf(errors.ErrTemplateExists, "A template named '%s' already exists", *input.Name)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to update template")
	}
	return s.Get(id)
}

// Delete removes the template and reports whether a row existed.
func (s *Store) Delete(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrStore, "failed to delete template")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrStore, "failed to delete template")
	}
	return n > 0, nil
}

// DeleteByName removes the template matching name case-insensitively
// and returns the deleted record.
func (s *Store) DeleteByName(name string) (*types.Template, error) {
	t, err := s.GetByName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.Delete(t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// ToggleFavorite flips the favorite flag and returns the updated
// template.
func (s *Store) ToggleFavorite(id string) (*types.Template, error) {
	_, err := s.db.Exec(
		`UPDATE templates SET is_favorite = NOT is_favorite, updated_at = ? WHERE id = ?`,
		nowTimestamp(), id)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to toggle favorite")
	}
	return s.Get(id)
}

// IncrementUseCount bumps the template's use counter. Unknown ids are
// a no-op.
func (s *Store) IncrementUseCount(id string) error {
	_, err := s.db.Exec(
		`UPDATE templates SET use_count = use_count + 1, updated_at = ? WHERE id = ?`,
		nowTimestamp(), id)
	if err != nil {
		return errors.Wrap(err, errors.ErrStore, "failed to increment use count")
	}
	return nil
}

// UniqueName returns baseName if it is free, otherwise the first free
// "baseName (2)" through "baseName (100)". The unique index catches
// any race left between the check and a later insert.
func (s *Store) UniqueName(baseName string) (string, error) {
	exists, err := s.ExistsByName(baseName)
	if err != nil {
		return "", err
	}
	if !exists {
		return baseName, nil
	}

	for counter := 2; counter <= 100; counter++ {
		candidate := fmt.Sprintf("%s (%d)", baseName, counter)
		exists, err := s.ExistsByName(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errors.New(errors.ErrStore, "Could not generate unique template name after 100 attempts")
}

// rowScanner lets scanTemplate work with both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) scanTemplate(row rowScanner) (*types.Template, error) {
	var (
		t             types.Template
		variablesJSON string
		rulesJSON     string
		tagsJSON      string
		favorite      int
	)
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.SchemaXML,
		&variablesJSON, &rulesJSON, &t.IconColor, &favorite, &t.UseCount,
		&t.CreatedAt, &t.UpdatedAt, &tagsJSON)
	if err != nil {
		return nil, err
	}

	t.IsFavorite = favorite != 0
	t.Variables = s.decodeVariables(t.ID, variablesJSON)
	t.VariableValidation = s.decodeRules(t.ID, rulesJSON)
	t.Tags = s.decodeTags(t.ID, tagsJSON)
	return &t, nil
}

// Malformed JSON columns fall back to empty values rather than failing
// the whole read; a warning records which row was affected.

func (s *Store) decodeVariables(id, raw string) map[string]string {
	vars := map[string]string{}
	if raw == "" {
		return vars
	}
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		s.logger.Warn().Str("id", id).Err(err).Msg("failed to parse variables JSON, using empty")
		return map[string]string{}
	}
	return vars
}

func (s *Store) decodeRules(id, raw string) map[string]types.ValidationRule {
	if raw == "" || raw == "{}" {
		return nil
	}
	rules := map[string]types.ValidationRule{}
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		s.logger.Warn().Str("id", id).Err(err).Msg("failed to parse variable_validation JSON, using empty")
		return nil
	}
	return rules
}

func (s *Store) decodeTags(id, raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		s.logger.Warn().Str("id", id).Err(err).Msg("failed to parse tags JSON, using empty")
		return nil
	}
	return tags
}

func encodeVariables(vars map[string]string) string {
	if len(vars) == 0 {
		return "{}"
	}
	data, err := json.Marshal(vars)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func encodeRules(rules map[string]types.ValidationRule) string {
	if len(rules) == 0 {
		return "{}"
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// AllTags returns the sorted union of tags across all templates.
func (s *Store) AllTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM templates WHERE tags IS NOT NULL AND tags != '[]'`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to list tags")
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrStore, "failed to read tags row")
		}
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			continue
		}
		for _, tag := range tags {
			seen[tag] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to list tags")
	}

	all := make([]string, 0, len(seen))
	for tag := range seen {
		all = append(all, tag)
	}
	sort.Strings(all)
	return all, nil
}

// UpdateTags replaces the template's tags with the validated form of
// tags and returns the stored result.
func (s *Store) UpdateTags(id string, tags []string) (*types.Template, error) {
	validated := validateTags(tags)

	res, err := s.db.Exec(
		`UPDATE templates SET tags = ?, updated_at = ? WHERE id = ?`,
		encodeTags(validated), nowTimestamp(), id)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to update tags")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to update tags")
	}
	if n == 0 {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "Template not found: %s", id)
	}
	return s.Get(id)
}
