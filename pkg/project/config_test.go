package project

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	doc := `{
  "config": {
    "project": "zlib",
    "ignore_extensions": ".png;.gif",
    "contact": "clearing@example.com"
  },
  "categories": [
    {"name": "Attribution", "licenses": ["MIT", "LicenseRef-BSD-like"]},
    {"name": "No license found", "licenses": []}
  ],
  "conversions": {"Expat": "MIT"}
}`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Project != "zlib" {
		t.Fatalf("project = %q", cfg.Project)
	}
	if !reflect.DeepEqual(cfg.IgnoreExtensions, []string{".png", ".gif"}) {
		t.Fatalf("ignore extensions = %v", cfg.IgnoreExtensions)
	}
	if len(cfg.Categories) != 2 || cfg.Categories[0].Name != "Attribution" {
		t.Fatalf("categories = %#v", cfg.Categories)
	}
	if !reflect.DeepEqual(cfg.Categories[0].Expressions, []string{"MIT", "LicenseRef-BSD-like"}) {
		t.Fatalf("expressions = %v", cfg.Categories[0].Expressions)
	}
	if len(cfg.Conversions) != 1 || cfg.Conversions[0] != (Conversion{OldText: "Expat", NewText: "MIT"}) {
		t.Fatalf("conversions = %#v", cfg.Conversions)
	}
	if cfg.Extra["contact"] != "clearing@example.com" {
		t.Fatalf("extra = %v", cfg.Extra)
	}
	if _, ok := cfg.Extra["project"]; ok {
		t.Fatal("project must not appear in Extra")
	}
}

func TestParseIgnoreExtensionsArray(t *testing.T) {
	doc := `{"config": {"project": "p", "ignore_extensions": [".png", ".gif"]}}`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(cfg.IgnoreExtensions, []string{".png", ".gif"}) {
		t.Fatalf("got %v", cfg.IgnoreExtensions)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{`},
		{"missing project", `{"config": {}}`},
		{"category without name", `{"config": {"project": "p"}, "categories": [{"licenses": ["MIT"]}]}`},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.doc)); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}
