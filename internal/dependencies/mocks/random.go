package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/whoknow/internal/dependencies/random"
)

// MockRandom replays queued values. When a queue runs dry Intn returns 0,
// String returns a zero-padded counter and ID returns a sequential "id-N".
type MockRandom struct {
	mu sync.Mutex

	IntnResults []int
	intnIndex   int

	StringResults []string
	stringIndex   int
	stringCounter int

	IDResults []string
	idIndex   int
	idCounter int

	// IntnCalls records the n passed to every Intn call
	IntnCalls []int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnCalls = append(r.IntnCalls, n)
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// String returns the next queued result, or a counter padded to length
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stringIndex >= len(r.StringResults) {
		r.stringCounter++
		return fmt.Sprintf("%0*d", length, r.stringCounter)
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// ID returns the next queued id, or a generated sequential one
func (r *MockRandom) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idIndex < len(r.IDResults) {
		result := r.IDResults[r.idIndex]
		r.idIndex++
		return result
	}
	r.idCounter++
	return fmt.Sprintf("id-%d", r.idCounter)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StringResults = append(r.StringResults, values...)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IDResults = append(r.IDResults, values...)
}
