// Package identifier converts between the two encodings of a movie id: the
// canonical hyphenated text form exchanged over the API and the 16-byte
// compact form stored as the primary key and join-table foreign key.
package identifier

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var canonical = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Valid reports whether s is in the canonical 8-4-4-4-12 grouped-hex form.
// uuid.Parse also accepts braced, URN and unhyphenated variants, so this
// regexp gate must run before any parse.
func Valid(s string) bool {
	return canonical.MatchString(s)
}

// ToBinary decodes a canonical text id into its 16-byte form.
func ToBinary(s string) ([16]byte, error) {
	if !Valid(s) {
		return [16]byte{}, fmt.Errorf("identifier: %q is not in canonical form", s)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return [16]byte{}, fmt.Errorf("identifier: %w", err)
	}
	return [16]byte(id), nil
}

// FromBinary renders the canonical text form of a 16-byte id.
func FromBinary(b [16]byte) string {
	return uuid.UUID(b).String()
}
