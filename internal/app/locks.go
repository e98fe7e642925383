package app

import (
	"sync"
	"time"

	"github.com/example/garden/internal/core/garden"
)

// Lock kinds.
const (
	LockTrade  = "trade"
	LockFusion = "fusion"
)

// UserLock is an advisory lock held by a user with a pending interaction.
type UserLock struct {
	Kind     string
	Message  string
	Acquired time.Time
}

// LockTable tracks users who have a pending trade or fusion confirmation.
// Locks live in memory only and vanish on restart.
type LockTable struct {
	mu    sync.Mutex
	locks map[string]UserLock
	now   func() time.Time
}

// NewLockTable creates an empty lock table.
func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[string]UserLock), now: time.Now}
}

// Get returns the lock a user holds, if any.
func (t *LockTable) Get(userID string) (UserLock, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[userID]
	return l, ok
}

// Check returns a Violation carrying the lock message when userID is locked.
func (t *LockTable) Check(userID string) error {
	if l, ok := t.Get(userID); ok {
		return garden.Violationf("%s", l.Message)
	}
	return nil
}

// Acquire locks every user or none. The returned release func is safe to
// call more than once.
func (t *LockTable) Acquire(kind string, messages map[string]string) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for userID := range messages {
		if l, ok := t.locks[userID]; ok {
			return nil, garden.Violationf("%s", l.Message)
		}
	}
	now := t.now()
	for userID, msg := range messages {
		t.locks[userID] = UserLock{Kind: kind, Message: msg, Acquired: now}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for userID := range messages {
				delete(t.locks, userID)
			}
		})
	}, nil
}

// Clear drops every lock.
func (t *LockTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locks = make(map[string]UserLock)
}
