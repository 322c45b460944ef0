package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistryBoardPerSession(t *testing.T) {
	reg := NewRegistry(newFakeAPI(5), 5)

	a := reg.Board("s1")
	assert.Same(t, a, reg.Board("s1"))
	assert.NotSame(t, a, reg.Board("s2"))
	assert.Equal(t, 2, reg.Len())

	reg.Drop("s1")
	assert.Equal(t, 1, reg.Len())
	assert.NotSame(t, a, reg.Board("s1"))
}

func TestRegistryPrune(t *testing.T) {
	reg := NewRegistry(newFakeAPI(5), 5)
	old := reg.Board("old")
	old.mu.Lock()
	old.lastUsed = time.Now().Add(-2 * time.Hour)
	old.mu.Unlock()
	reg.Board("fresh")

	assert.Equal(t, 1, reg.Prune(time.Hour))
	assert.Equal(t, 1, reg.Len())
}
