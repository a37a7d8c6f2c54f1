package service

import (
	"context"
	"errors"
	"time"

	"taskboss/internal/model"
)

var (
	// ErrStore wraps task store failures. The caller skips the task or asks
	// the user to try again.
	ErrStore = errors.New("task store")
	// ErrTaskNotFound is returned for unknown task ids.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskClosed is returned when acting on a task that is already done.
	ErrTaskClosed = errors.New("task already done")
)

// TaskStore is the part of the task repository the reminder tick needs.
type TaskStore interface {
	ListPending(ctx context.Context) ([]model.Task, error)
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	// Update applies a partial change to one row atomically.
	Update(ctx context.Context, id uint, upd model.TaskUpdate) error
}

// TaskRepository adds intake and listing to TaskStore.
type TaskRepository interface {
	TaskStore
	Create(ctx context.Context, task *model.Task) error
	ListPendingByOwner(ctx context.Context, ownerID int64, limit int) ([]model.Task, error)
}

// Action is a button offered with a reminder. Its value is the callback
// prefix the transport binds to the task id.
type Action string

const (
	ActionDone     Action = "done"
	ActionNotDone  Action = "notyet"
	ActionDoingNow Action = "doing_now"
)

// ReminderActions are attached to every reminder and intake message.
var ReminderActions = []Action{ActionDone, ActionNotDone, ActionDoingNow}

// Notification is a message about one task.
type Notification struct {
	Destination model.Destination
	Text        string
	TaskID      uint
	Actions     []Action
}

// Notifier delivers notifications. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// TextGenerator produces text for a single prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatGenerator produces a reply in a multi-turn conversation.
type ChatGenerator interface {
	GenerateChat(ctx context.Context, systemPrompt string, history []model.ConversationEntry, message string) (string, error)
}

type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
