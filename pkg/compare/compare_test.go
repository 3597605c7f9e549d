package compare

import (
	"reflect"
	"testing"

	"github.com/oss-clearing/licsum/pkg/storage"
)

func TestScans(t *testing.T) {
	first := map[string]string{
		"same.c":    "MIT",
		"changed.c": "MIT",
		"gone.c":    "Zlib",
	}
	second := map[string]string{
		"same.c":    "MIT",
		"changed.c": "GPL-2.0",
		"new.c":     "Apache-2.0",
	}

	res := Scans(first, second)

	expected := Result{
		Changed:      []ChangedEntry{{Filename: "changed.c", First: "MIT", Second: "GPL-2.0"}},
		OnlyInFirst:  []Entry{{Filename: "gone.c", License: "Zlib"}},
		OnlyInSecond: []Entry{{Filename: "new.c", License: "Apache-2.0"}},
	}
	if !reflect.DeepEqual(res, expected) {
		t.Fatalf("expected %#v, got %#v", expected, res)
	}
}

func TestScansCompleteness(t *testing.T) {
	// every file of both scans lands in exactly one bucket or none
	first := map[string]string{"a": "x", "b": "x", "c": "x"}
	second := map[string]string{"b": "y", "c": "x", "d": "x"}

	res := Scans(first, second)
	total := len(res.Changed) + len(res.OnlyInFirst) + len(res.OnlyInSecond)
	// a only-first, b changed, c identical, d only-second
	if total != 3 {
		t.Fatalf("expected 3 classified files, got %#v", res)
	}
}

func TestScansIdentical(t *testing.T) {
	m := map[string]string{"a.c": "MIT"}
	res := Scans(m, m)
	if len(res.Changed)+len(res.OnlyInFirst)+len(res.OnlyInSecond) != 0 {
		t.Fatalf("identical scans must compare empty, got %#v", res)
	}
}

func TestScansSorted(t *testing.T) {
	first := map[string]string{"z.c": "MIT", "a.c": "MIT", "m.c": "MIT"}
	res := Scans(first, map[string]string{})
	for i := 1; i < len(res.OnlyInFirst); i++ {
		if res.OnlyInFirst[i-1].Filename > res.OnlyInFirst[i].Filename {
			t.Fatalf("not sorted: %#v", res.OnlyInFirst)
		}
	}
}

func TestFileLicenses(t *testing.T) {
	rows := []storage.FileRow{
		{Filename: "a.c", Expression: "MIT", Display: "MIT License"},
		{Filename: "b.c", Display: "No license found"},
	}
	got := FileLicenses(rows)
	expected := map[string]string{
		"a.c": "MIT License",
		"b.c": "No license found",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}
