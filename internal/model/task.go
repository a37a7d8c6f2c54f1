package model

import "time"

// Status is the lifecycle state of a task. Done is terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Destination is where notifications about a task are posted.
type Destination struct {
	ChatID  int64
	TopicID int
}

// Task represents a single item raised by the owner.
type Task struct {
	ID                uint     `gorm:"primaryKey"`
	Text              string   `gorm:"not null"`
	Category          Category `gorm:"size:20;default:other"`
	Status            Status   `gorm:"size:20;default:pending;index"`
	GroupID           int64
	TopicID           int
	OwnerID           int64 `gorm:"index"`
	DueAt             *time.Time
	RemindedAt        *time.Time
	RemindedBeforeDue bool `gorm:"default:false"`
	DeadlineAskedAt   *time.Time
	// DeadlinePenalizedAt is set once by the overdue penalty and marks the
	// deadline cycle as finished.
	DeadlinePenalizedAt *time.Time
	OverdueCount        int `gorm:"default:0"`
	SnoozeReason        *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

func (t Task) Destination() Destination {
	return Destination{ChatID: t.GroupID, TopicID: t.TopicID}
}

// TaskUpdate carries the fields to change on a single task row. Nil pointers
// are left untouched.
type TaskUpdate struct {
	Status              *Status
	RemindedAt          *time.Time
	RemindedBeforeDue   *bool
	DeadlineAskedAt     *time.Time
	ClearDeadlineAsk    bool
	DeadlinePenalizedAt *time.Time
	SnoozeReason        *string
	// IncrementOverdue bumps overdue_count by one in the same statement.
	// Only the reminder tick sets it.
	IncrementOverdue bool
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Status == nil && u.RemindedAt == nil && u.RemindedBeforeDue == nil &&
		u.DeadlineAskedAt == nil && !u.ClearDeadlineAsk && u.DeadlinePenalizedAt == nil &&
		u.SnoozeReason == nil && !u.IncrementOverdue
}
