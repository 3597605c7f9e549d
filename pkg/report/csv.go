package report

import (
	"encoding/csv"
	"io"
	"os"
	"sort"

	"github.com/oss-clearing/licsum/pkg/storage"
)

// WriteCSV emits the full file/license listing for one scan, sorted by file
// path.
func WriteCSV(w io.Writer, rows []storage.FileRow) error {
	sorted := make([]storage.FileRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Filename < sorted[j].Filename })

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"File path", "License"}); err != nil {
		return err
	}
	for _, r := range sorted {
		if err := cw.Write([]string{r.Filename, r.Display}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the listing to a file.
func SaveCSV(path string, rows []storage.FileRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
