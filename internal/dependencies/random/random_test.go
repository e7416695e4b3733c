package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringUsesAlphabet(t *testing.T) {
	r := New()
	for range 50 {
		id := r.String(GameIDLength, IDAlphabet)
		assert.Len(t, id, GameIDLength)
		for _, c := range id {
			assert.True(t, strings.ContainsRune(IDAlphabet, c), "unexpected %q in %q", c, id)
		}
	}
}

func TestStringEdgeCases(t *testing.T) {
	r := New()
	assert.Empty(t, r.String(0, IDAlphabet))
	assert.Empty(t, r.String(5, ""))
	assert.Equal(t, "aaaa", r.String(4, "a"))
}
