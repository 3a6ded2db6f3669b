// Package normalize canonicalizes free-text owner names and phone numbers
// so they can be compared across records entered by different people.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// PhoneSuffixLen is the number of trailing digits compared between phone numbers.
// Local numbers differ only in their country/trunk prefix, so the suffix is what identifies a subscriber.
const PhoneSuffixLen = 9

// NameNormalizer lowercases names using the casing rules of a specific language.
type NameNormalizer struct {
	tag language.Tag
}

// NewNameNormalizer returns a normalizer that lowercases with the rules of tag.
// Use language.Und for script-neutral folding; Arabic has no case so it passes through unchanged.
func NewNameNormalizer(tag language.Tag) *NameNormalizer {
	return &NameNormalizer{tag: tag}
}

// Normalize trims, lowercases and collapses internal whitespace.
func (n *NameNormalizer) Normalize(s string) string {
	s = norm.NFC.String(s)

	fields := strings.FieldsFunc(s, unicode.IsSpace)
	if len(fields) == 0 {
		return ""
	}

	// A Caser carries transform state, so one is built per call to stay safe for concurrent use.
	return cases.Lower(n.tag).String(strings.Join(fields, " "))
}

var defaultNames = NewNameNormalizer(language.Und)

// Name normalizes s with script-neutral lowercasing.
func Name(s string) string {
	return defaultNames.Normalize(s)
}

// Phone strips everything but digits and returns the trailing PhoneSuffixLen digits.
// Arabic-Indic digits are folded to their ASCII value first.
func Phone(s string) string {
	var sb strings.Builder

	for _, r := range s {
		if d, ok := digitValue(r); ok {
			sb.WriteByte(byte('0' + d))
		}
	}

	digits := sb.String()
	if len(digits) > PhoneSuffixLen {
		return digits[len(digits)-PhoneSuffixLen:]
	}

	return digits
}

// digitValue returns the value of an ASCII, Arabic-Indic or Extended Arabic-Indic digit.
func digitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= '\u0660' && r <= '\u0669':
		return int(r - '\u0660'), true
	case r >= '\u06F0' && r <= '\u06F9':
		return int(r - '\u06F0'), true
	}

	return 0, false
}

// Digits rewrites Arabic-Indic digits as ASCII and leaves every other rune alone.
// The Arabic decimal and thousands separators become '.' and ','.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := digitValue(r); ok {
			return rune('0' + d)
		}

		switch r {
		case '٫':
			return '.'
		case '٬':
			return ','
		}

		return r
	}, s)
}
