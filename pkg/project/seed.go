package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oss-clearing/licsum/internal/utils"
	"github.com/oss-clearing/licsum/pkg/license"
	"github.com/oss-clearing/licsum/pkg/storage"
)

// Seed initializes a fresh project database from the parsed config: config
// keys, categories, expression bindings and conversions are written in one
// transaction and the database is marked initialized. Seeding an already
// initialized database is an error.
func Seed(ctx context.Context, db *storage.DB, cfg *Config) error {
	initialized, err := db.Initialized(ctx)
	if err != nil {
		return err
	}
	if initialized {
		return errors.New("database is already initialized")
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.SetConfigValue(ctx, storage.KeyProject, cfg.Project); err != nil {
		return err
	}
	if len(cfg.IgnoreExtensions) > 0 {
		if err := tx.SetConfigValue(ctx, storage.KeyIgnoreExtensions, strings.Join(cfg.IgnoreExtensions, ";")); err != nil {
			return err
		}
	}
	for k, v := range cfg.Extra {
		if err := tx.SetConfigValue(ctx, k, v); err != nil {
			return err
		}
	}

	seenReserved := false
	for _, c := range cfg.Categories {
		cat, err := tx.CreateCategory(ctx, c.Name)
		if err != nil {
			return err
		}
		if cat.Name == license.NoLicenseFound {
			seenReserved = true
		}
		for _, expr := range c.Expressions {
			normalized := license.Normalize(expr)
			if normalized == license.NoLicense {
				continue
			}
			if err := tx.BindExpression(ctx, normalized, cat.ID); err != nil {
				return err
			}
		}
	}
	if !seenReserved {
		// The reserved category must exist before any import can run.
		utils.Log.Infof("seed config has no %q category; adding it", license.NoLicenseFound)
		if _, err := tx.CreateCategory(ctx, license.NoLicenseFound); err != nil {
			return err
		}
	}

	for _, conv := range cfg.Conversions {
		old := license.Normalize(conv.OldText)
		if old == license.NoLicense || conv.NewText == "" {
			return fmt.Errorf("invalid conversion %q => %q", conv.OldText, conv.NewText)
		}
		if err := tx.AddConversion(ctx, old, conv.NewText); err != nil {
			return err
		}
	}

	if err := tx.MarkInitialized(ctx); err != nil {
		return err
	}
	return tx.Commit()
}
