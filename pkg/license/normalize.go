package license

import "strings"

// refPrefix is the reference-style prefix scanners attach to licenses that
// are not on the SPDX license list, e.g. "LicenseRef-MIT-variant".
const refPrefix = "LicenseRef-"

// NoLicense is the sentinel for a file that carried no license expression at
// all. It contains a NUL byte so it can never collide with a real expression.
const NoLicense = "\x00no-license"

// Normalize strips the reference prefix from a raw license expression,
// wherever it occurs, including inside compound AND/OR/WITH expressions.
// Empty input normalizes to the NoLicense sentinel. Normalization is pure:
// the same raw expression always produces the same result.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoLicense
	}
	return stripRefPrefix(raw)
}

// stripRefPrefix removes every occurrence of the reference prefix. Removal
// repeats until the string is stable, so stripping is idempotent even when a
// removal pass exposes a new occurrence.
func stripRefPrefix(s string) string {
	for {
		out := strings.ReplaceAll(s, refPrefix, "")
		if out == s {
			return out
		}
		s = out
	}
}
