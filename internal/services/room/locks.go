package room

import (
	"sync"

	"github.com/mcoot/whoknow/internal/model"
)

// Locks hands out one mutex per room code. Entries are dropped once no
// command holds or waits on them, so the map only grows with live traffic.
type Locks struct {
	mu    sync.Mutex
	locks map[model.RoomCode]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{locks: make(map[model.RoomCode]*roomLock)}
}

// Lock blocks until the caller holds the room's mutex and returns its release
func (l *Locks) Lock(code model.RoomCode) func() {
	l.mu.Lock()
	rl, ok := l.locks[code]
	if !ok {
		rl = &roomLock{}
		l.locks[code] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()

	return func() {
		rl.mu.Unlock()

		l.mu.Lock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.locks, code)
		}
		l.mu.Unlock()
	}
}

// size reports how many codes currently have a lock entry
func (l *Locks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
