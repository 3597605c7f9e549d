package spdx

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ParseJSON extracts per-file records from an SPDX JSON document. Only the
// fields needed for license facts are read; the rest of the document is left
// alone.
func ParseJSON(data []byte) ([]FileRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON document")
	}
	files := gjson.GetBytes(data, "files")
	if !files.Exists() {
		return nil, errors.New("document has no files array")
	}

	var records []FileRecord
	files.ForEach(func(_, file gjson.Result) bool {
		fr := FileRecord{FileName: file.Get("fileName").String()}
		if fr.FileName == "" {
			return true
		}

		if lic := file.Get("licenseConcluded"); lic.Exists() && lic.String() != "" {
			fr.Licenses = append(fr.Licenses, lic.String())
		}
		file.Get("licenseInfoInFiles").ForEach(func(_, lic gjson.Result) bool {
			if lic.String() != "" {
				fr.Licenses = append(fr.Licenses, lic.String())
			}
			return true
		})

		file.Get("checksums").ForEach(func(_, sum gjson.Result) bool {
			value := sum.Get("checksumValue").String()
			switch sum.Get("algorithm").String() {
			case "SHA1":
				fr.SHA1 = value
			case "MD5":
				fr.MD5 = value
			case "SHA256":
				fr.SHA256 = value
			}
			return true
		})

		records = append(records, fr)
		return true
	})

	return records, nil
}
