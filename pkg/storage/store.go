package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oss-clearing/licsum/pkg/license"
)

// Internal config keys. These are managed by the tool itself and cannot be
// changed through SetConfigValue.
const (
	keyMagic       = "magic"
	keyVersion     = "version"
	keyInitialized = "initialized"
)

// Configurable keys with meaning to the core.
const (
	KeyProject          = "project"
	KeyIgnoreExtensions = "ignore_extensions"
	KeyPrecedence       = "precedence"
)

// ErrNoSuchKey is returned by ConfigValue for an absent config key.
var ErrNoSuchKey = errors.New("config key not found")

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// store carries the queries shared by DB and Tx. Its method set implements
// license.Store, so the resolver can run against either.
type store struct {
	q querier
}

func (s store) Categories(ctx context.Context) ([]license.Category, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []license.Category
	for rows.Next() {
		var c license.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s store) CategoryByName(ctx context.Context, name string) (license.Category, error) {
	var c license.Category
	err := s.q.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE name = ?", name).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return license.Category{}, license.ErrNotFound
	}
	return c, err
}

func (s store) CreateCategory(ctx context.Context, name string) (license.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return license.Category{}, errors.New("category name must not be empty")
	}
	res, err := s.q.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return license.Category{}, fmt.Errorf("adding category %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return license.Category{}, err
	}
	return license.Category{ID: id, Name: name}, nil
}

func (s store) Binding(ctx context.Context, expression string) (license.Category, error) {
	var c license.Category
	err := s.q.QueryRowContext(ctx,
		"SELECT categories.id, categories.name FROM bindings JOIN categories ON bindings.category_id = categories.id WHERE bindings.expression = ?",
		expression).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return license.Category{}, license.ErrNotFound
	}
	return c, err
}

func (s store) BindExpression(ctx context.Context, expression string, categoryID int64) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO bindings (expression, category_id) VALUES (?, ?)", expression, categoryID)
	if err != nil {
		return fmt.Errorf("binding %q: %w", expression, err)
	}
	return nil
}

func (s store) Conversion(ctx context.Context, expression string) (string, error) {
	var text string
	err := s.q.QueryRowContext(ctx,
		"SELECT new_text FROM conversions WHERE old_text = ?", expression).Scan(&text)
	if err == sql.ErrNoRows {
		return "", license.ErrNotFound
	}
	return text, err
}

func (s store) AddConversion(ctx context.Context, oldText, newText string) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT OR REPLACE INTO conversions (old_text, new_text) VALUES (?, ?)", oldText, newText)
	if err != nil {
		return fmt.Errorf("adding conversion %q => %q: %w", oldText, newText, err)
	}
	return nil
}

func (s store) ConfigValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.q.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNoSuchKey
	}
	return value, err
}

// SetConfigValue writes a configurable key. Internal keys are off limits.
func (s store) SetConfigValue(ctx context.Context, key, value string) error {
	switch key {
	case keyMagic, keyVersion, keyInitialized:
		return fmt.Errorf("config key %q is managed by licsum and cannot be set", key)
	}
	_, err := s.q.ExecContext(ctx,
		"INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)", key, value)
	return err
}

// ConfigurableConfig returns every config pair except the internal ones.
func (s store) ConfigurableConfig(ctx context.Context) (map[string]string, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT key, value FROM config ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		switch k {
		case keyMagic, keyVersion, keyInitialized:
			continue
		}
		config[k] = v
	}
	return config, rows.Err()
}

// IgnoreExtensions parses the semicolon-separated ignore_extensions config
// value. An absent key means no extensions are ignored.
func (s store) IgnoreExtensions(ctx context.Context) ([]string, error) {
	value, err := s.ConfigValue(ctx, KeyIgnoreExtensions)
	if errors.Is(err, ErrNoSuchKey) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var exts []string
	for _, e := range strings.Split(value, ";") {
		if e = strings.TrimSpace(e); e != "" {
			exts = append(exts, e)
		}
	}
	return exts, nil
}
