// Package report renders committed scans and comparison results as CSV and
// XLSX documents. Renderers are pure sinks: they never write back into the
// project database.
package report

import (
	"strings"

	"github.com/oss-clearing/licsum/pkg/license"
	"github.com/oss-clearing/licsum/pkg/storage"
)

// VendorLabel replaces "No license found" for files living under a vendor
// directory, which usually need no clearing of their own.
const VendorLabel = "No license found - in vendor directory"

// RelabelVendorFiles rewrites the display text of no-license files under a
// vendor/ directory. Categories are untouched; this is report-facing text
// only. Returns how many rows changed.
func RelabelVendorFiles(rows []storage.FileRow) int {
	changed := 0
	for i := range rows {
		if rows[i].Display == license.NoLicenseFound && strings.Contains(rows[i].Filename, "vendor/") {
			rows[i].Display = VendorLabel
			changed++
		}
	}
	return changed
}

// RelabelVendorFilesGrouped applies RelabelVendorFiles to every group.
func RelabelVendorFilesGrouped(groups []storage.CategoryGroup) int {
	changed := 0
	for i := range groups {
		changed += RelabelVendorFiles(groups[i].Files)
	}
	return changed
}
