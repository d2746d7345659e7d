package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePublishAt(t *testing.T) {
	for _, value := range []string{
		"2026-03-01T10:00:00Z",
		"2026-03-01T10:00:00",
		"2026-03-01T10:00",
	} {
		parsed, ok := parsePublishAt(value)
		assert.True(t, ok, value)
		assert.Equal(t, 2026, parsed.Year(), value)
	}

	_, ok := parsePublishAt("next tuesday")
	assert.False(t, ok)
}

func TestPublishTimePassed(t *testing.T) {
	assert.True(t, publishTimePassed("2020-01-01T10:00"))
	assert.False(t, publishTimePassed("2099-01-01T10:00"))
	assert.False(t, publishTimePassed("garbage"), "unparseable times are never treated as elapsed")
}
