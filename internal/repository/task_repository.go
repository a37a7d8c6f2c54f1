package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskboss/internal/model"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// TaskRepository handles persistence for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if task.Category == "" {
		task.Category = model.CategoryOther
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListPending returns every task that is not done, oldest first.
func (r *TaskRepository) ListPending(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("status = ?", model.StatusPending).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	return tasks, nil
}

// ListPendingByOwner returns up to limit pending tasks of one owner, tasks
// with a deadline first, then newest. A non-positive limit means no limit.
func (r *TaskRepository) ListPendingByOwner(ctx context.Context, ownerID int64, limit int) ([]model.Task, error) {
	var tasks []model.Task
	q := r.db.WithContext(ctx).Where("owner_id = ? AND status = ?", ownerID, model.StatusPending).
		Order("CASE WHEN due_at IS NULL THEN 1 ELSE 0 END, due_at ASC, created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list owner tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// Update applies the non-nil fields of upd to one row in a single statement.
func (r *TaskRepository) Update(ctx context.Context, id uint, upd model.TaskUpdate) error {
	if upd.IsEmpty() {
		return nil
	}

	values := make(map[string]interface{})
	if upd.Status != nil {
		values["status"] = string(*upd.Status)
	}
	if upd.RemindedAt != nil {
		values["reminded_at"] = *upd.RemindedAt
	}
	if upd.RemindedBeforeDue != nil {
		values["reminded_before_due"] = *upd.RemindedBeforeDue
	}
	if upd.ClearDeadlineAsk {
		values["deadline_asked_at"] = nil
	} else if upd.DeadlineAskedAt != nil {
		values["deadline_asked_at"] = *upd.DeadlineAskedAt
	}
	if upd.DeadlinePenalizedAt != nil {
		values["deadline_penalized_at"] = *upd.DeadlinePenalizedAt
	}
	if upd.SnoozeReason != nil {
		values["snooze_reason"] = *upd.SnoozeReason
	}
	if upd.IncrementOverdue {
		values["overdue_count"] = gorm.Expr("overdue_count + ?", 1)
	}

	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update task %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
