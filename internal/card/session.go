package card

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Query is the card selector read from a page URL or query string.
type Query struct {
	// ID is the record identifier: "stt", falling back to "id".
	ID string
	// LegacyName and LegacyCode come from the old "name"/"code" parameters.
	// They are parsed but never applied to the card.
	LegacyName string
	LegacyCode string
}

// ParseQuery reads a Query from a full URL, a "?a=b" query or a bare
// "a=b&c=d" string. Unparseable input yields whatever pairs could be read.
func ParseQuery(raw string) Query {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	values, _ := url.ParseQuery(raw)
	id := values.Get("stt")
	if id == "" {
		id = values.Get("id")
	}
	return Query{
		ID:         id,
		LegacyName: values.Get("name"),
		LegacyCode: values.Get("code"),
	}
}

// Defaults are shown where the record leaves a gap.
type Defaults struct {
	BarcodeValue string
	Message      string
}

// Session is the state of one card run: who it is for and what it shows.
type Session struct {
	ID       string
	Query    Query
	Record   Record
	defaults Defaults
}

// NewSession starts a session with a blank record.
func NewSession(q Query, d Defaults) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Query:    q,
		defaults: d,
	}
}

// Apply replaces the whole record. A blank record blanks every field.
func (s *Session) Apply(r Record) {
	s.Record = r
}

// BarcodeValue is the gift code, or the default value for a blank code.
func (s *Session) BarcodeValue() string {
	if s.Record.GiftCode != "" {
		return s.Record.GiftCode
	}
	return s.defaults.BarcodeValue
}

// PopupMessage is the hint shown after the welcome speech.
func (s *Session) PopupMessage() string {
	if s.Record.Message != "" {
		return s.Record.Message
	}
	return s.defaults.Message
}
