package storage

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Version is the current licsum release, stamped into every database it
	// initializes.
	Version = "0.3.0"

	// lastSchemaChange is the most recent release that changed the database
	// schema. Databases older than this need a migration.
	lastSchemaChange = "0.3.0"
)

// compareVersions compares two major.minor.point version strings, returning
// <0, 0 or >0.
func compareVersions(a, b string) (int, error) {
	av, err := versionParts(a)
	if err != nil {
		return 0, err
	}
	bv, err := versionParts(b)
	if err != nil {
		return 0, err
	}
	for i := range av {
		if av[i] != bv[i] {
			return av[i] - bv[i], nil
		}
	}
	return 0, nil
}

func versionParts(v string) ([3]int, error) {
	var parts [3]int
	fields := strings.Split(v, ".")
	if len(fields) != 3 {
		return parts, fmt.Errorf("version %q is not major.minor.point", v)
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return parts, fmt.Errorf("version %q is not numeric", v)
		}
		parts[i] = n
	}
	return parts, nil
}
