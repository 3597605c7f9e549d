package spdx

import (
	"bufio"
	"io"
	"strings"

	"github.com/oss-clearing/licsum/internal/utils"
)

// FileRecord holds the per-file facts extracted from one report block. It is
// transient: produced by the parser, consumed by the importer, never stored.
type FileRecord struct {
	FileName string
	// Raw license expressions attached to the file, in input order. May be
	// empty, which is a legitimate "no license found" case.
	Licenses []string

	SHA1   string
	MD5    string
	SHA256 string
}

// Tags recognized by the parser. Anything else in the document is ignored,
// so reports carrying extra SPDX fields still parse.
const (
	tagFileName          = "FileName"
	tagLicenseConcluded  = "LicenseConcluded"
	tagLicenseInfoInFile = "LicenseInfoInFile"
	tagFileChecksum      = "FileChecksum"
)

// ParseTagValue reads an SPDX tag:value report and returns one FileRecord per
// FileName block, preserving input order. The warning count covers malformed
// lines and unparseable checksum values, both of which are skipped rather
// than treated as fatal.
func ParseTagValue(r io.Reader) ([]FileRecord, int, error) {
	loader := NewLoader()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		loader.ParseLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, loader.Warnings(), err
	}

	pairs, err := loader.Finish()
	if err != nil {
		return nil, loader.Warnings(), err
	}

	warnings := loader.Warnings()

	var records []FileRecord
	var current *FileRecord
	for _, p := range pairs {
		switch p.Tag {
		case tagFileName:
			if current != nil {
				records = append(records, *current)
			}
			current = &FileRecord{FileName: p.Value}

		case tagLicenseConcluded, tagLicenseInfoInFile:
			if current == nil {
				// document-level license info, not tied to a file
				continue
			}
			current.Licenses = append(current.Licenses, p.Value)

		case tagFileChecksum:
			if current == nil {
				continue
			}
			if !parseChecksum(current, p.Value) {
				warnings++
			}
		}
	}
	if current != nil {
		records = append(records, *current)
	}

	return records, warnings, nil
}

// parseChecksum fills in the matching checksum field from a
// "SHA1: <hex>" style value. Returns false if the value is unusable.
func parseChecksum(fr *FileRecord, value string) bool {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		utils.Log.Warnf("couldn't parse checksum value %q for %s", value, fr.FileName)
		return false
	}
	sum := strings.TrimSpace(parts[1])
	switch strings.TrimSpace(parts[0]) {
	case "SHA1":
		fr.SHA1 = sum
	case "MD5":
		fr.MD5 = sum
	case "SHA256":
		fr.SHA256 = sum
	default:
		utils.Log.Warnf("unknown checksum type %q for %s", parts[0], fr.FileName)
		return false
	}
	return true
}
