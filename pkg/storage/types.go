package storage

// ScanInfo describes one committed scan.
type ScanInfo struct {
	ID          int64
	Date        string // YYYY-MM-DD, as entered at import time
	Description string
}

// FileRow is one file entry of a committed scan.
type FileRow struct {
	Filename string
	// Expression is the normalized categorization key; empty when the file
	// carried no license expression.
	Expression   string
	Display      string
	CategoryID   int64
	CategoryName string

	MD5    string
	SHA1   string
	SHA256 string
}

// CategoryGroup collects one category's files within a scan, for the
// category-per-sheet report layout.
type CategoryGroup struct {
	ID    int64
	Name  string
	Files []FileRow
}
