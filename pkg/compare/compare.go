// Package compare computes the difference between two committed scans,
// joined by file name.
package compare

import (
	"sort"

	"github.com/oss-clearing/licsum/pkg/storage"
)

// Entry is a file present in only one of the two scans.
type Entry struct {
	Filename string
	License  string
}

// ChangedEntry is a file present in both scans with different license text.
type ChangedEntry struct {
	Filename string
	First    string
	Second   string
}

// Result holds the three-way classification. Files with identical license
// text in both scans appear nowhere. All slices are sorted by filename.
type Result struct {
	Changed      []ChangedEntry
	OnlyInFirst  []Entry
	OnlyInSecond []Entry
}

// FileLicenses flattens scan rows into the filename => display-license map
// the comparison works on.
func FileLicenses(rows []storage.FileRow) map[string]string {
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.Filename] = r.Display
	}
	return m
}

// Scans compares two scans by file name. It is a pure function of the two
// maps: no lookups, no writes, no escalation.
func Scans(first, second map[string]string) Result {
	var res Result
	for name, lic := range first {
		other, inBoth := second[name]
		switch {
		case !inBoth:
			res.OnlyInFirst = append(res.OnlyInFirst, Entry{Filename: name, License: lic})
		case lic != other:
			res.Changed = append(res.Changed, ChangedEntry{Filename: name, First: lic, Second: other})
		}
	}
	for name, lic := range second {
		if _, inBoth := first[name]; !inBoth {
			res.OnlyInSecond = append(res.OnlyInSecond, Entry{Filename: name, License: lic})
		}
	}

	sort.Slice(res.Changed, func(i, j int) bool { return res.Changed[i].Filename < res.Changed[j].Filename })
	sort.Slice(res.OnlyInFirst, func(i, j int) bool { return res.OnlyInFirst[i].Filename < res.OnlyInFirst[j].Filename })
	sort.Slice(res.OnlyInSecond, func(i, j int) bool { return res.OnlyInSecond[i].Filename < res.OnlyInSecond[j].Filename })
	return res
}
