// Package vocab normalizes enum values that arrive in either the English or the
// French vocabulary into a single canonical spelling.
package vocab

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ErrUnknownValue = errors.New("unknown enum value")

// UnknownValueError reports a value that matches no spelling of its family.
type UnknownValueError struct {
	Family string
	Value  string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s value %q", e.Family, e.Value)
}

func (e *UnknownValueError) Is(target error) bool {
	return target == ErrUnknownValue
}

// Table is the static alias table of one enum family. The zero value matches nothing.
type Table struct {
	family    string
	aliases   map[string]string
	canonical []string
}

// NewTable builds a table from canonical values to their alternate spellings.
// Canonical values always match themselves.
func NewTable(family string, spellings map[string][]string) Table {
	t := Table{
		family:  family,
		aliases: make(map[string]string, len(spellings)*2),
	}
	for canonical, alternates := range spellings {
		t.canonical = append(t.canonical, canonical)
		t.aliases[fold(canonical)] = canonical
		for _, alt := range alternates {
			t.aliases[fold(alt)] = canonical
		}
	}
	return t
}

func (t Table) Family() string {
	return t.family
}

// Normalize returns the canonical spelling of raw.
func (t Table) Normalize(raw string) (string, error) {
	if canonical, ok := t.aliases[fold(raw)]; ok {
		return canonical, nil
	}
	return "", &UnknownValueError{Family: t.family, Value: raw}
}

// Equal reports whether a and b name the same canonical value.
func (t Table) Equal(a, b string) bool {
	ca, errA := t.Normalize(a)
	cb, errB := t.Normalize(b)
	return errA == nil && errB == nil && ca == cb
}

func (t Table) Valid(raw string) bool {
	_, err := t.Normalize(raw)
	return err == nil
}

// fold trims, strips diacritics, upper-cases and joins words with underscores.
func fold(s string) string {
	s = strings.TrimSpace(s)
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripper, s); err == nil {
		s = out
	}
	s = strings.ToUpper(s)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
