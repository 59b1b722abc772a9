package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(500))
}

func TestTrimPage(t *testing.T) {
	rows := []int{1, 2, 3, 4}

	trimmed, hasMore := TrimPage(rows, 3)
	assert.Equal(t, []int{1, 2, 3}, trimmed)
	assert.True(t, hasMore)

	trimmed, hasMore = TrimPage(rows, 4)
	assert.Equal(t, rows, trimmed)
	assert.False(t, hasMore)
}

func TestCursorRoundTrip(t *testing.T) {
	original := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		ID:        uuid.New(),
	}

	parsed, err := ParseCursor(EncodeCursor(original))
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, original.CreatedAt.Equal(parsed.CreatedAt))
	assert.Equal(t, original.ID, parsed.ID)
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	parsed, err := ParseCursor("")
	require.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = ParseCursor("not-base64!!!")
	assert.Error(t, err)

	_, err = ParseCursor("bm8tcGlwZQ==")
	assert.Error(t, err)
}

func TestKeyCursorRoundTrip(t *testing.T) {
	original := KeyCursor{
		Key: 12999,
		ID:  uuid.New(),
	}

	parsed, err := ParseKeyCursor(EncodeKeyCursor(original))
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, original.Key, parsed.Key)
	assert.Equal(t, original.ID, parsed.ID)
}

func TestParseKeyCursorRejectsGarbage(t *testing.T) {
	parsed, err := ParseKeyCursor("")
	require.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = ParseKeyCursor("not-base64!!!")
	assert.Error(t, err)

	// valid base64 but the key is not numeric
	_, err = ParseKeyCursor("bm90LWEtbnVtYmVyfGFiYw==")
	assert.Error(t, err)
}
