package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboss/internal/model"
)

func entry(i int) model.ConversationEntry {
	return model.ConversationEntry{UserMessage: fmt.Sprintf("q%d", i), Reply: fmt.Sprintf("a%d", i)}
}

func messages(entries []model.ConversationEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.UserMessage)
	}
	return out
}

func TestBuffer_EvictsOldestFirst(t *testing.T) {
	b := NewBuffer(3)
	for i := 1; i <= 5; i++ {
		b.Append(1, entry(i))
	}

	assert.Equal(t, []string{"q3", "q4", "q5"}, messages(b.Recent(1, 10)))
}

func TestBuffer_RecentBounds(t *testing.T) {
	b := NewBuffer(4)
	for i := 1; i <= 3; i++ {
		b.Append(1, entry(i))
	}

	assert.Equal(t, []string{"q2", "q3"}, messages(b.Recent(1, 2)))
	assert.Len(t, b.Recent(1, 100), 3)
	assert.Nil(t, b.Recent(1, 0))
	assert.Nil(t, b.Recent(2, 5))
}

func TestBuffer_UsersAreIsolated(t *testing.T) {
	b := NewBuffer(2)
	b.Append(1, entry(1))
	b.Append(2, entry(2))

	assert.Equal(t, []string{"q1"}, messages(b.Recent(1, 5)))
	assert.Equal(t, []string{"q2"}, messages(b.Recent(2, 5)))
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer(2)
	b.Append(1, entry(1))
	b.Append(2, entry(2))

	b.Clear(1)

	assert.Empty(t, b.Recent(1, 5))
	assert.Len(t, b.Recent(2, 5), 1)
	b.Clear(99)
}

func TestBuffer_RecentReturnsCopy(t *testing.T) {
	b := NewBuffer(2)
	b.Append(1, entry(1))

	got := b.Recent(1, 1)
	got[0].UserMessage = "changed"

	assert.Equal(t, "q1", b.Recent(1, 1)[0].UserMessage)
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewBuffer(0).Capacity())
}

func TestBuffer_ConcurrentAppend(t *testing.T) {
	b := NewBuffer(5)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Append(1, entry(i))
		}(i)
	}
	wg.Wait()

	require.Len(t, b.Recent(1, 100), 5)
}
