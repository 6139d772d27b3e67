package card

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRecordSanitises(t *testing.T) {
	t.Parallel()
	r := NewRecord("  Jane+Doe ", "%41BC123", "Hello%20Jane ")
	require.Equal(t, Record{DisplayName: "JANE DOE", GiftCode: "ABC123", Message: "Hello Jane"}, r)

	r = NewRecord("nguyễn văn a", "", "")
	require.Equal(t, "NGUYỄN VĂN A", r.DisplayName)

	r = NewRecord("100%", "x", "")
	require.Equal(t, "100%", r.DisplayName)

	long := strings.Repeat("é", MaxFieldLen+20)
	require.Equal(t, MaxFieldLen, len([]rune(NewRecord("", "", long).Message)))
}

func TestParseQuery(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw  string
		want Query
	}{
		{"https://example.com/card/?stt=3", Query{ID: "3"}},
		{"?id=7&name=Bob&code=X1", Query{ID: "7", LegacyName: "Bob", LegacyCode: "X1"}},
		{"stt=4&id=9", Query{ID: "4"}},
		{"index.html?stt=12#back", Query{ID: "12"}},
		{"", Query{}},
		{"%zz=1&stt=5", Query{ID: "5"}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ParseQuery(tc.raw), tc.raw)
	}
}

func TestSessionFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	s := NewSession(Query{ID: "3"}, Defaults{BarcodeValue: "1256", Message: "Drag the card"})
	require.NotEmpty(t, s.ID)
	require.Equal(t, "1256", s.BarcodeValue())
	require.Equal(t, "Drag the card", s.PopupMessage())

	s.Apply(NewRecord("Jane", "ABC", "Hi"))
	require.Equal(t, "ABC", s.BarcodeValue())
	require.Equal(t, "Hi", s.PopupMessage())

	s.Apply(Record{})
	require.True(t, s.Record.IsZero())
	require.Equal(t, "1256", s.BarcodeValue())
}
