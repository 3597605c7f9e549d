package license

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain id", "MIT", "MIT"},
		{"ref prefix stripped", "LicenseRef-MIT-variant", "MIT-variant"},
		{"prefix inside compound", "Zlib AND LicenseRef-custom", "Zlib AND custom"},
		{"multiple prefixes", "LicenseRef-a OR LicenseRef-b", "a OR b"},
		{"nested prefix", "LicenseLicenseRef-Ref-x", "x"},
		{"whitespace trimmed", "  Apache-2.0  ", "Apache-2.0"},
		{"empty is sentinel", "", NoLicense},
		{"blank is sentinel", "   ", NoLicense},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Fatalf("%s: Normalize(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"MIT", "LicenseRef-MIT", "LicenseLicenseRef-Ref-x", "a AND b"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
