package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/oss-clearing/licsum/pkg/compare"
	"github.com/oss-clearing/licsum/pkg/storage"
)

const statsSheet = "License counts"

// SaveExcelFull writes the full per-category workbook for one scan: a
// license-count summary sheet, then one sheet per category listing its files.
func SaveExcelFull(path string, groups []storage.CategoryGroup) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, normal, err := styles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", statsSheet); err != nil {
		return err
	}
	if err := f.SetColWidth(statsSheet, "A", "A", 2); err != nil {
		return err
	}
	if err := f.SetColWidth(statsSheet, "B", "B", 58); err != nil {
		return err
	}
	if err := f.SetColWidth(statsSheet, "C", "C", 10); err != nil {
		return err
	}
	writeCell(f, statsSheet, 1, 1, "License", bold)
	writeCell(f, statsSheet, 3, 1, "# of files", bold)

	total := 0
	row := 3
	for _, g := range groups {
		writeCell(f, statsSheet, 1, row, g.Name+":", bold)
		row++
		for _, lc := range licenseCounts(g.Files) {
			writeCell(f, statsSheet, 2, row, lc.license, normal)
			writeCell(f, statsSheet, 3, row, lc.count, normal)
			total += lc.count
			row++
		}
	}
	row++
	writeCell(f, statsSheet, 1, row, "TOTAL", bold)
	writeCell(f, statsSheet, 3, row, total, bold)

	for _, g := range groups {
		sheet := sheetName(g.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet for category %q: %w", g.Name, err)
		}
		if err := writeFileSheet(f, sheet, bold, normal, g.Files); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// SaveExcelComparison writes the two-scan comparison workbook: changed
// licenses, files only in the first scan, files only in the second.
func SaveExcelComparison(path string, res compare.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, normal, err := styles(f)
	if err != nil {
		return err
	}

	const changedSheet = "Changed licenses"
	if err := f.SetSheetName("Sheet1", changedSheet); err != nil {
		return err
	}
	if err := f.SetColWidth(changedSheet, "A", "A", 100); err != nil {
		return err
	}
	if err := f.SetColWidth(changedSheet, "B", "C", 60); err != nil {
		return err
	}
	writeCell(f, changedSheet, 1, 1, "File", bold)
	writeCell(f, changedSheet, 2, 1, "First License", bold)
	writeCell(f, changedSheet, 3, 1, "Second License", bold)
	for i, c := range res.Changed {
		writeCell(f, changedSheet, 1, i+2, c.Filename, normal)
		writeCell(f, changedSheet, 2, i+2, c.First, normal)
		writeCell(f, changedSheet, 3, i+2, c.Second, normal)
	}

	for _, side := range []struct {
		sheet   string
		entries []compare.Entry
	}{
		{"In first only", res.OnlyInFirst},
		{"In second only", res.OnlyInSecond},
	} {
		if _, err := f.NewSheet(side.sheet); err != nil {
			return err
		}
		if err := f.SetColWidth(side.sheet, "A", "A", 100); err != nil {
			return err
		}
		if err := f.SetColWidth(side.sheet, "B", "B", 60); err != nil {
			return err
		}
		writeCell(f, side.sheet, 1, 1, "File", bold)
		writeCell(f, side.sheet, 2, 1, "License", bold)
		for i, e := range side.entries {
			writeCell(f, side.sheet, 1, i+2, e.Filename, normal)
			writeCell(f, side.sheet, 2, i+2, e.License, normal)
		}
	}

	return f.SaveAs(path)
}

func writeFileSheet(f *excelize.File, sheet string, bold, normal int, files []storage.FileRow) error {
	if err := f.SetColWidth(sheet, "A", "A", 100); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 60); err != nil {
		return err
	}
	writeCell(f, sheet, 1, 1, "File", bold)
	writeCell(f, sheet, 2, 1, "License", bold)

	sorted := make([]storage.FileRow, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Display != sorted[j].Display {
			return sorted[i].Display < sorted[j].Display
		}
		return sorted[i].Filename < sorted[j].Filename
	})

	for i, r := range sorted {
		writeCell(f, sheet, 1, i+2, r.Filename, normal)
		writeCell(f, sheet, 2, i+2, r.Display, normal)
	}
	return nil
}

func styles(f *excelize.File) (bold, normal int, err error) {
	bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return 0, 0, err
	}
	normal, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 14}})
	if err != nil {
		return 0, 0, err
	}
	return bold, normal, nil
}

func writeCell(f *excelize.File, sheet string, col, row int, value interface{}, style int) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, value)
	_ = f.SetCellStyle(sheet, cell, cell, style)
}

type licenseCount struct {
	license string
	count   int
}

// licenseCounts tallies files per display text, sorted by text.
func licenseCounts(files []storage.FileRow) []licenseCount {
	counts := map[string]int{}
	for _, r := range files {
		counts[r.Display]++
	}
	out := make([]licenseCount, 0, len(counts))
	for lic, n := range counts {
		out = append(out, licenseCount{license: lic, count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].license < out[j].license })
	return out
}

// sheetName fits a category name into Excel's 31-character sheet name limit.
func sheetName(name string) string {
	if len(name) <= 31 {
		return name
	}
	return name[:31]
}
