package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockRandomQueueThenSequence(t *testing.T) {
	r := NewMockRandom()
	r.QueueString("game-a", "game-b")

	assert.Equal(t, "game-a", r.String(10, "xyz"))
	assert.Equal(t, "game-b", r.String(10, "xyz"))
	assert.Equal(t, "id0001", r.String(10, "xyz"))
	assert.Equal(t, "id0002", r.String(10, "xyz"))
}

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}
