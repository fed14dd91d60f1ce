package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluralizeWarnings(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "предов"},
		{1, "пред"},
		{2, "преда"},
		{4, "преда"},
		{5, "предов"},
		{11, "предов"},
		{12, "предов"},
		{14, "предов"},
		{21, "пред"},
		{22, "преда"},
		{111, "предов"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PluralizeWarnings(tt.n), "n=%d", tt.n)
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "1 похвала", FormatCount(1, "похвала", "похвалы", "похвал"))
	assert.Equal(t, "3 похвалы", FormatCount(3, "похвала", "похвалы", "похвал"))
	assert.Equal(t, "7 похвал", FormatCount(7, "похвала", "похвалы", "похвал"))
}

func TestDateRoundTrip(t *testing.T) {
	parsed, err := ParseDate("04.03.2025")
	require.NoError(t, err)
	assert.Equal(t, 2025, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 4, parsed.Day())
	assert.Equal(t, "04.03.2025", FormatDate(parsed))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "вчера", "2025-03-04", "4.3.25"} {
		_, err := ParseDate(s)
		assert.Error(t, err, "вход %q", s)
	}
}
