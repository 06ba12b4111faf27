package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursor(createdAt, "entry-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, createdAt, cursor.CreatedAt)
	assert.Equal(t, "entry-42", cursor.ID)

	// Non-UTC input is normalised
	local := time.Date(2023, 5, 15, 10, 0, 0, 0, time.FixedZone("X", 3600))
	cursor, err = DecodeCursor(EncodeCursor(local, "a"))
	require.NoError(t, err)
	assert.True(t, local.Equal(cursor.CreatedAt))
}

func TestDecodeCursorError(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeCursor(EncodeMultiFieldToken("notadate", "id"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestCursorBefore(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := Cursor{CreatedAt: ts, ID: "m"}

	assert.True(t, c.Before(ts.Add(-time.Second), "z"), "older rows come after the cursor")
	assert.False(t, c.Before(ts.Add(time.Second), "a"), "newer rows come before the cursor")
	assert.True(t, c.Before(ts, "a"), "same time, lower id comes after")
	assert.False(t, c.Before(ts, "m"), "the cursor row itself is excluded")
	assert.False(t, c.Before(ts, "z"))
}

func TestEncodeMultiFieldToken(t *testing.T) {
	fields := []string{"field1", "field2", "field3"}
	token := EncodeMultiFieldToken(fields...)

	decodedFields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, fields, decodedFields, "Fields should match after decode")

	// When splitting an empty string with strings.Split, we get a slice with one empty string
	decodedEmpty, err := DecodeMultiFieldToken(EncodeMultiFieldToken())
	assert.NoError(t, err)
	assert.Equal(t, []string{""}, decodedEmpty)
}
