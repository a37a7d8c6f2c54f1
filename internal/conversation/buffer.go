// Package conversation keeps the recent private-chat history of each user
// in memory for multi-turn replies. It is lost on restart.
package conversation

import (
	"sync"

	"taskboss/internal/model"
)

const DefaultCapacity = 10

// Buffer is a per-user FIFO of conversation entries with a fixed capacity.
// It is safe for concurrent use.
type Buffer struct {
	capacity int
	mu       sync.Mutex
	entries  map[int64][]model.ConversationEntry
}

// NewBuffer creates a buffer holding at most capacity entries per user.
// Non-positive capacities use DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		capacity: capacity,
		entries:  make(map[int64][]model.ConversationEntry),
	}
}

func (b *Buffer) Capacity() int {
	return b.capacity
}

// Append adds entry to the user's history, evicting the oldest entries once
// the capacity is exceeded.
func (b *Buffer) Append(userID int64, entry model.ConversationEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	history := append(b.entries[userID], entry)
	if over := len(history) - b.capacity; over > 0 {
		history = append([]model.ConversationEntry(nil), history[over:]...)
	}
	b.entries[userID] = history
}

// Recent returns up to n of the user's newest entries, oldest first.
// The result is a copy.
func (b *Buffer) Recent(userID int64, n int) []model.ConversationEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	history := b.entries[userID]
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if n > len(history) {
		n = len(history)
	}
	out := make([]model.ConversationEntry, n)
	copy(out, history[len(history)-n:])
	return out
}

// Clear drops the user's history entirely.
func (b *Buffer) Clear(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, userID)
}
