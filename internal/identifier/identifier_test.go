package identifier

import (
	"strings"
	"testing"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"lowercase", "8b3f0c5e-9a1d-4f6b-8e2a-0c7d4b1f9e3a", true},
		{"uppercase", "8B3F0C5E-9A1D-4F6B-8E2A-0C7D4B1F9E3A", true},
		{"mixed-case", "8b3F0c5E-9a1D-4f6B-8e2A-0c7D4b1F9e3A", true},
		{"empty", "", false},
		{"no-hyphens", "8b3f0c5e9a1d4f6b8e2a0c7d4b1f9e3a", false},
		{"braced", "{8b3f0c5e-9a1d-4f6b-8e2a-0c7d4b1f9e3a}", false},
		{"urn", "urn:uuid:8b3f0c5e-9a1d-4f6b-8e2a-0c7d4b1f9e3a", false},
		{"too-short", "8b3f0c5e-9a1d-4f6b-8e2a-0c7d4b1f9e", false},
		{"too-long", "8b3f0c5e-9a1d-4f6b-8e2a-0c7d4b1f9e3a00", false},
		{"non-hex", "8b3f0c5g-9a1d-4f6b-8e2a-0c7d4b1f9e3a", false},
		{"misplaced-hyphen", "8b3f0c5e9-a1d-4f6b-8e2a-0c7d4b1f9e3a", false},
		{"trailing-space", "8b3f0c5e-9a1d-4f6b-8e2a-0c7d4b1f9e3a ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.in); got != tt.want {
				t.Fatalf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToBinaryRoundTrip(t *testing.T) {
	const text = "8b3f0c5e-9a1d-4f6b-8e2a-0c7d4b1f9e3a"

	bin, err := ToBinary(text)
	if err != nil {
		t.Fatalf("ToBinary(%q): %v", text, err)
	}
	if got := FromBinary(bin); got != text {
		t.Fatalf("FromBinary(ToBinary(%q)) = %q", text, got)
	}

	// Uppercase input normalizes to lowercase canonical output.
	bin, err = ToBinary(strings.ToUpper(text))
	if err != nil {
		t.Fatalf("ToBinary uppercase: %v", err)
	}
	if got := FromBinary(bin); got != text {
		t.Fatalf("FromBinary uppercase round trip = %q, want %q", got, text)
	}
}

func TestToBinaryRejectsNonCanonical(t *testing.T) {
	inputs := []string{
		"",
		"not-a-uuid",
		"8b3f0c5e9a1d4f6b8e2a0c7d4b1f9e3a",
		"urn:uuid:8b3f0c5e-9a1d-4f6b-8e2a-0c7d4b1f9e3a",
	}
	for _, in := range inputs {
		if _, err := ToBinary(in); err == nil {
			t.Fatalf("ToBinary(%q) expected error", in)
		}
	}
}
