package etikett

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestULIDGen(t *testing.T) {
	g := ULIDGen{}

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := g.Next()
		assert.Regexp(t, "^[0-9a-z]{26}$", id, "suffix must be filename-safe")
		assert.False(t, seen[id], "collision: %s", id)
		seen[id] = true
	}
}
