package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 25, ParseInt("25", 10))
	assert.Equal(t, 10, ParseInt("", 10))
	assert.Equal(t, 10, ParseInt("abc", 10))
	assert.Equal(t, 10, ParseInt("0", 10))
	assert.Equal(t, 10, ParseInt("-3", 10))
}

func TestGenerateTicketNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^TKT-\d{8}-\d{6}-\d{4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := GenerateTicketNumber()
		assert.Regexp(t, pattern, number)
		seen[number] = true
	}
	// Collisions within a second are possible but 100 back-to-back numbers
	// should mostly differ.
	assert.Greater(t, len(seen), 1)
}
