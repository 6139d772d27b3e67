// Package card holds the personalization record shown on the card and the
// per-run session that owns it.
package card

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxFieldLen bounds every displayed field, in runes.
const MaxFieldLen = 200

// Record is the personalization shown on the card. The zero value is the
// blank card.
type Record struct {
	DisplayName string
	GiftCode    string
	Message     string
}

// IsZero reports whether the record is blank.
func (r Record) IsZero() bool {
	return r == Record{}
}

// NewRecord builds a record from raw dataset columns, sanitising each field
// and upper-casing the name.
func NewRecord(name, code, message string) Record {
	return Record{
		DisplayName: cases.Upper(language.Und).String(Sanitize(name, MaxFieldLen)),
		GiftCode:    Sanitize(code, MaxFieldLen),
		Message:     Sanitize(message, MaxFieldLen),
	}
}

// Sanitize URL-decodes s (a malformed escape leaves it as is), turns '+'
// into spaces, trims it and truncates it to max runes.
func Sanitize(s string, max int) string {
	if s == "" {
		return ""
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, "+", " "))
	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return s
}
