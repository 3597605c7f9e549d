package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ErrScanNotFound is returned when a scan id does not exist.
var ErrScanNotFound = fmt.Errorf("scan not found")

// CreateScan inserts the scan row. File rows follow through AddFiles within
// the same transaction.
func (t *Tx) CreateScan(ctx context.Context, date, description string) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		"INSERT INTO scans (scan_dt, description) VALUES (?, ?)", date, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddFiles bulk-inserts the file rows for a scan.
func (t *Tx) AddFiles(ctx context.Context, scanID int64, rows []FileRow) error {
	stmt, err := t.tx.PrepareContext(ctx,
		"INSERT INTO files (scan_id, filename, expression, display, category_id, md5, sha1, sha256) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, scanID, r.Filename, r.Expression, r.Display,
			r.CategoryID, nullIfEmpty(r.MD5), nullIfEmpty(r.SHA1), nullIfEmpty(r.SHA256)); err != nil {
			return fmt.Errorf("adding file %s: %w", r.Filename, err)
		}
	}
	return nil
}

// Scans lists all committed scans in id order.
func (d *DB) Scans(ctx context.Context) ([]ScanInfo, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, scan_dt, COALESCE(description, '') FROM scans ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []ScanInfo
	for rows.Next() {
		var s ScanInfo
		if err := rows.Scan(&s.ID, &s.Date, &s.Description); err != nil {
			return nil, err
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// Scan fetches one scan by id.
func (d *DB) Scan(ctx context.Context, id int64) (ScanInfo, error) {
	var s ScanInfo
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, scan_dt, COALESCE(description, '') FROM scans WHERE id = ?", id).
		Scan(&s.ID, &s.Date, &s.Description)
	if err == sql.ErrNoRows {
		return ScanInfo{}, fmt.Errorf("%w: %d", ErrScanNotFound, id)
	}
	return s, err
}

// FilesForScan returns a scan's file rows ordered by filename. With
// excludeGit set, anything under a .git directory is left out, matching the
// report behavior.
func (d *DB) FilesForScan(ctx context.Context, scanID int64, excludeGit bool) ([]FileRow, error) {
	if _, err := d.Scan(ctx, scanID); err != nil {
		return nil, err
	}

	q := `SELECT filename, expression, display, categories.id, categories.name,
  COALESCE(md5, ''), COALESCE(sha1, ''), COALESCE(sha256, '')
FROM files JOIN categories ON files.category_id = categories.id
WHERE scan_id = ?`
	if excludeGit {
		q += " AND instr(filename, '/.git/') <= 0 AND filename NOT LIKE '.git/%'"
	}
	q += " ORDER BY filename"

	rows, err := d.sql.QueryContext(ctx, q, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var r FileRow
		if err := rows.Scan(&r.Filename, &r.Expression, &r.Display, &r.CategoryID,
			&r.CategoryName, &r.MD5, &r.SHA1, &r.SHA256); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CategoryFilesForScan groups a scan's files by category, ordered by
// category id, then display text, then filename.
func (d *DB) CategoryFilesForScan(ctx context.Context, scanID int64, excludeGit bool) ([]CategoryGroup, error) {
	if _, err := d.Scan(ctx, scanID); err != nil {
		return nil, err
	}

	q := `SELECT categories.id, categories.name, filename, expression, display
FROM files JOIN categories ON files.category_id = categories.id
WHERE scan_id = ?`
	if excludeGit {
		q += " AND instr(filename, '/.git/') <= 0 AND filename NOT LIKE '.git/%'"
	}
	q += " ORDER BY categories.id, display, filename"

	rows, err := d.sql.QueryContext(ctx, q, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []CategoryGroup
	for rows.Next() {
		var catID int64
		var catName string
		var r FileRow
		if err := rows.Scan(&catID, &catName, &r.Filename, &r.Expression, &r.Display); err != nil {
			return nil, err
		}
		r.CategoryID = catID
		r.CategoryName = catName

		if len(groups) == 0 || groups[len(groups)-1].ID != catID {
			groups = append(groups, CategoryGroup{ID: catID, Name: catName})
		}
		g := &groups[len(groups)-1]
		g.Files = append(g.Files, r)
	}
	return groups, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
