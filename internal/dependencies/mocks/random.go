package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
)

// MockRandom hands out queued strings, then predictable unique ones
// ("id0001", "id0002", ...) once the queue is empty. Safe for concurrent use.
type MockRandom struct {
	mu        sync.Mutex
	queue     []string
	generated int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued value, ignoring length and alphabet
func (r *MockRandom) String(int, string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		return next
	}
	r.generated++
	return fmt.Sprintf("id%04d", r.generated)
}

// QueueString adds values to be returned by String, in order
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	r.queue = append(r.queue, values...)
	r.mu.Unlock()
}
