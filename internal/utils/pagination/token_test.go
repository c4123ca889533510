package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "expense-1",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, cursor, decoded)

	// Non-UTC input is normalised
	local := time.FixedZone("IST", 5*3600+1800)
	decoded, err = DecodeToken(EncodeToken(Cursor{Date: cursor.Date.In(local), CreatedAt: cursor.CreatedAt.In(local), ID: "x"}))
	require.NoError(t, err)
	assert.True(t, cursor.Date.Equal(decoded.Date))
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	encode := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{"not base64", "this is not base64!", "base64 decode"},
		{"missing separator", encode("2023-05-15T00:00:00Z"), "split"},
		{"missing id", encode("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|"), "split"},
		{"bad date", encode("notadate|2023-05-15T00:00:00Z|id"), "date parse"},
		{"bad created_at", encode("2023-05-15T00:00:00Z|notadate|id"), "created_at parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
