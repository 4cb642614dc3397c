package service

import (
	"sync"

	"github.com/google/uuid"
)

// roomLocks hands out one mutex per room so room mutations (joins, every
// turn-machine operation) are single atomic read-modify-writes, regardless
// of whether they arrived over HTTP or a websocket. Locks are never
// reclaimed; rooms are small and long-lived.
type roomLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *roomLocks) get(roomID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[roomID] = lock
	}
	return lock
}
