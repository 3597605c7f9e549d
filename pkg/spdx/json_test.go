package spdx

import (
	"reflect"
	"testing"
)

func TestParseJSON(t *testing.T) {
	doc := `{
  "spdxVersion": "SPDX-2.2",
  "files": [
    {
      "fileName": "./src/adler32.c",
      "licenseConcluded": "Zlib",
      "licenseInfoInFiles": ["Zlib"],
      "checksums": [
        {"algorithm": "SHA1", "checksumValue": "0e0b8087"},
        {"algorithm": "MD5", "checksumValue": "7ae1a134"}
      ]
    },
    {
      "fileName": "./README",
      "licenseConcluded": "",
      "licenseInfoInFiles": []
    },
    {
      "fileName": ""
    }
  ]
}`
	records, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	expected := []FileRecord{
		{
			FileName: "./src/adler32.c",
			Licenses: []string{"Zlib", "Zlib"},
			SHA1:     "0e0b8087",
			MD5:      "7ae1a134",
		},
		{FileName: "./README"},
	}
	if !reflect.DeepEqual(records, expected) {
		t.Fatalf("expected %#v, got %#v", expected, records)
	}
}

func TestParseJSONErrors(t *testing.T) {
	if _, err := ParseJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, err := ParseJSON([]byte(`{"spdxVersion": "SPDX-2.2"}`)); err == nil {
		t.Fatal("expected error for missing files array")
	}
}
