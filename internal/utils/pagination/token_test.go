package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2026, 3, 15, 14, 30, 45, 123456789, time.UTC)
	token := EncodeCursor(createdAt, "entry-42")
	assert.NotEmpty(t, token)

	decodedAt, id, err := DecodeCursor(token)
	assert.NoError(t, err)
	assert.True(t, createdAt.Equal(decodedAt))
	assert.Equal(t, "entry-42", id)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, _, err := DecodeCursor("not-base64!!")
	assert.Error(t, err)

	_, _, err = DecodeCursor("aGVsbG8=") // base64("hello"), no separator
	assert.Error(t, err)
}
