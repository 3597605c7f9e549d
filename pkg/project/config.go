// Package project loads the JSON seed document used to initialize a new
// project database: project name, ignore-extension list, initial categories
// with their known license expressions, and initial display conversions.
package project

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Category is one seed category and the normalized expressions known to
// belong to it.
type Category struct {
	Name        string
	Expressions []string
}

// Conversion is one seed display substitution.
type Conversion struct {
	OldText string
	NewText string
}

// Config is the parsed seed document.
type Config struct {
	Project          string
	IgnoreExtensions []string
	Categories       []Category
	Conversions      []Conversion

	// Extra carries any other keys under "config", stored verbatim in the
	// project config table.
	Extra map[string]string
}

// Load reads and parses a seed document from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a seed document of the form:
//
//	{
//	  "config": {"project": "zlib", "ignore_extensions": ".png;.gif"},
//	  "categories": [{"name": "Attribution", "licenses": ["MIT", "BSD-3-Clause"]}],
//	  "conversions": {"Expat": "MIT"}
//	}
//
// ignore_extensions may be a semicolon-separated string or a JSON array.
func Parse(data []byte) (*Config, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	doc := gjson.ParseBytes(data)

	cfg := &Config{Extra: map[string]string{}}
	cfg.Project = doc.Get("config.project").String()
	if cfg.Project == "" {
		return nil, errors.New(`missing "config.project"`)
	}

	doc.Get("config").ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "project", "ignore_extensions":
		default:
			cfg.Extra[key.String()] = value.String()
		}
		return true
	})

	exts := doc.Get("config.ignore_extensions")
	if exts.IsArray() {
		exts.ForEach(func(_, e gjson.Result) bool {
			cfg.IgnoreExtensions = append(cfg.IgnoreExtensions, e.String())
			return true
		})
	} else if exts.String() != "" {
		for _, e := range strings.Split(exts.String(), ";") {
			if e = strings.TrimSpace(e); e != "" {
				cfg.IgnoreExtensions = append(cfg.IgnoreExtensions, e)
			}
		}
	}

	var parseErr error
	doc.Get("categories").ForEach(func(_, c gjson.Result) bool {
		cat := Category{Name: c.Get("name").String()}
		if cat.Name == "" {
			parseErr = errors.New("category with no name")
			return false
		}
		c.Get("licenses").ForEach(func(_, lic gjson.Result) bool {
			if lic.String() != "" {
				cat.Expressions = append(cat.Expressions, lic.String())
			}
			return true
		})
		cfg.Categories = append(cfg.Categories, cat)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	doc.Get("conversions").ForEach(func(key, value gjson.Result) bool {
		cfg.Conversions = append(cfg.Conversions, Conversion{
			OldText: key.String(),
			NewText: value.String(),
		})
		return true
	})

	return cfg, nil
}
