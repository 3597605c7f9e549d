// Package importer assembles a scan from parsed file records: it normalizes
// every license expression, resolves each one to a category, and commits the
// whole scan in a single transaction.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/oss-clearing/licsum/internal/utils"
	"github.com/oss-clearing/licsum/pkg/license"
	"github.com/oss-clearing/licsum/pkg/spdx"
	"github.com/oss-clearing/licsum/pkg/storage"
)

// Precedence policies for a file carrying several license expressions that
// resolve to different categories.
const (
	// PrecedenceNonDefault: any expression resolving outside the reserved
	// "No license found" category wins over one resolving into it.
	PrecedenceNonDefault = "non-default"
	// PrecedenceFirst: the first expression in the record wins outright.
	PrecedenceFirst = "first"
)

// Options controls one import run.
type Options struct {
	// Date in YYYY-MM-DD form; today when empty.
	Date        string
	Description string
	// Precedence overrides the project's configured policy when set.
	Precedence string
}

// Importer runs scan imports against one project database.
type Importer struct {
	db      *storage.DB
	decider license.Decider
}

func New(db *storage.DB, decider license.Decider) *Importer {
	return &Importer{db: db, decider: decider}
}

// Import commits the records as one new scan. Nothing is persisted if any
// record fails to resolve or the commit itself fails: the scan row, its file
// rows, and any categories, bindings or conversions created during
// escalation all land in one transaction.
func (im *Importer) Import(ctx context.Context, records []spdx.FileRecord, opts Options) (storage.ScanInfo, error) {
	date, description, err := scanMeta(opts)
	if err != nil {
		return storage.ScanInfo{}, err
	}

	initialized, err := im.db.Initialized(ctx)
	if err != nil {
		return storage.ScanInfo{}, err
	}
	if !initialized {
		return storage.ScanInfo{}, errors.New("database is not initialized; run licsum init first")
	}

	tx, err := im.db.Begin(ctx)
	if err != nil {
		return storage.ScanInfo{}, err
	}
	defer tx.Rollback()

	precedence := opts.Precedence
	if precedence == "" {
		precedence, err = tx.ConfigValue(ctx, storage.KeyPrecedence)
		if errors.Is(err, storage.ErrNoSuchKey) {
			precedence = PrecedenceNonDefault
		} else if err != nil {
			return storage.ScanInfo{}, err
		}
	}
	if precedence != PrecedenceNonDefault && precedence != PrecedenceFirst {
		return storage.ScanInfo{}, fmt.Errorf("unknown precedence policy %q", precedence)
	}

	ignoreExts, err := tx.IgnoreExtensions(ctx)
	if err != nil {
		return storage.ScanInfo{}, err
	}

	resolver, err := license.NewResolver(ctx, tx, im.decider, ignoreExts)
	if err != nil {
		return storage.ScanInfo{}, err
	}
	reserved, err := tx.CategoryByName(ctx, license.NoLicenseFound)
	if err != nil {
		return storage.ScanInfo{}, err
	}

	prefix := commonDirPrefix(records)
	if prefix != "" {
		utils.Log.Infof("stripping common path prefix %q", prefix)
	}

	// Assemble rows in input order; a repeated filename replaces the
	// earlier entry.
	var order []string
	byName := make(map[string]storage.FileRow)
	for _, rec := range records {
		if rec.FileName == "" {
			utils.Log.Warn("skipping record with empty file name")
			continue
		}
		filename := strings.TrimPrefix(path.Clean(rec.FileName), prefix)

		row, err := im.resolveRecord(ctx, resolver, reserved, rec, filename, precedence)
		if err != nil {
			return storage.ScanInfo{}, err
		}
		if _, seen := byName[filename]; !seen {
			order = append(order, filename)
		}
		byName[filename] = row
	}

	rows := make([]storage.FileRow, 0, len(order))
	for _, name := range order {
		rows = append(rows, byName[name])
	}

	scanID, err := tx.CreateScan(ctx, date, description)
	if err != nil {
		return storage.ScanInfo{}, err
	}
	if err := tx.AddFiles(ctx, scanID, rows); err != nil {
		return storage.ScanInfo{}, err
	}
	if err := tx.Commit(); err != nil {
		return storage.ScanInfo{}, fmt.Errorf("committing scan: %w", err)
	}

	utils.Log.Infof("saved %d files to database for scan %d", len(rows), scanID)
	return storage.ScanInfo{ID: scanID, Date: date, Description: description}, nil
}

// resolveRecord resolves every expression a record carries and picks the
// effective one per the precedence policy.
func (im *Importer) resolveRecord(ctx context.Context, resolver *license.Resolver, reserved license.Category, rec spdx.FileRecord, filename, precedence string) (storage.FileRow, error) {
	ext := strings.ToLower(path.Ext(filename))

	exprs := rec.Licenses
	if len(exprs) == 0 {
		exprs = []string{""}
	}

	var resolutions []license.Resolution
	for _, raw := range exprs {
		res, err := resolver.Resolve(ctx, license.Normalize(raw), ext)
		if err != nil {
			return storage.FileRow{}, fmt.Errorf("resolving %q for %s: %w", raw, filename, err)
		}
		resolutions = append(resolutions, res)
	}

	winner := resolutions[0]
	if precedence == PrecedenceNonDefault {
		for _, res := range resolutions {
			if res.Category.ID != reserved.ID {
				winner = res
				break
			}
		}
	}

	return storage.FileRow{
		Filename:     filename,
		Expression:   winner.Expression,
		Display:      winner.Display,
		CategoryID:   winner.Category.ID,
		CategoryName: winner.Category.Name,
		MD5:          rec.MD5,
		SHA1:         rec.SHA1,
		SHA256:       rec.SHA256,
	}, nil
}

func scanMeta(opts Options) (date, description string, err error) {
	date = opts.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, perr := time.Parse("2006-01-02", date); perr != nil {
		return "", "", fmt.Errorf("scan date must be YYYY-MM-DD, got %q", date)
	}
	description = opts.Description
	if description == "" {
		description = "no description"
	}
	return date, description, nil
}

// commonDirPrefix finds the directory prefix shared by every record's
// filename, including the trailing slash. A lone file contributes its whole
// directory part.
func commonDirPrefix(records []spdx.FileRecord) string {
	var common []string
	first := true
	for _, rec := range records {
		if rec.FileName == "" {
			continue
		}
		parts := dirParts(rec.FileName)
		if first {
			common = parts
			first = false
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
		if len(common) == 0 {
			return ""
		}
	}
	if len(common) == 0 {
		return ""
	}
	return strings.Join(common, "/") + "/"
}

func dirParts(p string) []string {
	d := path.Dir(p)
	if d == "." || d == "/" {
		return nil
	}
	return strings.Split(d, "/")
}
