package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/oss-clearing/licsum/pkg/compare"
	"github.com/oss-clearing/licsum/pkg/storage"
)

func TestSaveExcelFull(t *testing.T) {
	groups := []storage.CategoryGroup{
		{ID: 1, Name: "Attribution", Files: []storage.FileRow{
			{Filename: "src/b.c", Display: "Zlib"},
			{Filename: "src/a.c", Display: "MIT"},
			{Filename: "src/c.c", Display: "MIT"},
		}},
		{ID: 2, Name: "No license found", Files: []storage.FileRow{
			{Filename: "README", Display: "No license found"},
		}},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := SaveExcelFull(path, groups); err != nil {
		t.Fatalf("SaveExcelFull: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != "License counts" {
		t.Fatalf("sheets = %v", sheets)
	}

	// stats sheet: Attribution header, then MIT=2 and Zlib=1 sorted by text
	if v, _ := f.GetCellValue("License counts", "A3"); v != "Attribution:" {
		t.Fatalf("A3 = %q", v)
	}
	if v, _ := f.GetCellValue("License counts", "B4"); v != "MIT" {
		t.Fatalf("B4 = %q", v)
	}
	if v, _ := f.GetCellValue("License counts", "C4"); v != "2" {
		t.Fatalf("C4 = %q", v)
	}

	// category sheet rows sorted by display, then filename
	if v, _ := f.GetCellValue("Attribution", "A2"); v != "src/a.c" {
		t.Fatalf("Attribution A2 = %q", v)
	}
	if v, _ := f.GetCellValue("Attribution", "A4"); v != "src/b.c" {
		t.Fatalf("Attribution A4 = %q", v)
	}
}

func TestSaveExcelComparison(t *testing.T) {
	res := compare.Result{
		Changed:      []compare.ChangedEntry{{Filename: "a.c", First: "MIT", Second: "GPL-2.0"}},
		OnlyInFirst:  []compare.Entry{{Filename: "gone.c", License: "Zlib"}},
		OnlyInSecond: []compare.Entry{{Filename: "new.c", License: "Apache-2.0"}},
	}

	path := filepath.Join(t.TempDir(), "cmp.xlsx")
	if err := SaveExcelComparison(path, res); err != nil {
		t.Fatalf("SaveExcelComparison: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	expected := []string{"Changed licenses", "In first only", "In second only"}
	if len(sheets) != 3 {
		t.Fatalf("sheets = %v", sheets)
	}
	for i, name := range expected {
		if sheets[i] != name {
			t.Fatalf("sheets = %v", sheets)
		}
	}

	if v, _ := f.GetCellValue("Changed licenses", "C2"); v != "GPL-2.0" {
		t.Fatalf("C2 = %q", v)
	}
	if v, _ := f.GetCellValue("In second only", "A2"); v != "new.c" {
		t.Fatalf("A2 = %q", v)
	}
}

func TestSheetName(t *testing.T) {
	long := "A very long category name that exceeds the limit"
	if got := sheetName(long); len(got) != 31 {
		t.Fatalf("len = %d", len(got))
	}
	if got := sheetName("Short"); got != "Short" {
		t.Fatalf("got %q", got)
	}
}
