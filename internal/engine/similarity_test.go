package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("Hello!", "hello"), 1e-9)
	assert.InDelta(t, 1.0, similarity("", ""), 1e-9)
	assert.InDelta(t, 1-3.0/7.0, similarity("kitten", "sitting"), 1e-9)
	assert.InDelta(t, 0.0, similarity("abc", ""), 1e-9)
	assert.Greater(t, similarity("what is your name", "what's your name"), similarity("what is your name", "do you like hats"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "what's up", normalize("  What's   UP?? "))
	assert.Equal(t, "hi there", normalize("Hi, there."))
	assert.Equal(t, "", normalize("?!"))
}
