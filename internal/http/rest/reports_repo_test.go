package rest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCursorRoundTrip(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2026, 8, 29, 10, 30, 0, 123456789, time.UTC)

	cursor := encodeCursor(createdAt, id)

	gotTime, gotID, err := decodeCursor(cursor)
	assert.NoError(t, err)
	assert.True(t, gotTime.Equal(createdAt))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursorMalformed(t *testing.T) {
	// an invalid encoding, a payload with no separator, and a bare
	// separator with empty halves
	cases := []string{"not-base64!!!", "aGVsbG8", "fA"}
	for _, cursor := range cases {
		_, _, err := decodeCursor(cursor)
		assert.Error(t, err, cursor)
	}
}

func TestPageLimit(t *testing.T) {
	assert.Equal(t, defaultPageSize, pageLimit(0))
	assert.Equal(t, defaultPageSize, pageLimit(-5))
	assert.Equal(t, 50, pageLimit(50))
	assert.Equal(t, maxPageSize, pageLimit(100))
	// oversized requests clamp to the max, not the default
	assert.Equal(t, maxPageSize, pageLimit(250))
}
