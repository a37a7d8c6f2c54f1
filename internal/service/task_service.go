package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskboss/internal/ai"
	"taskboss/internal/model"
	"taskboss/internal/repository"
)

const (
	FallbackDoneReply = "✅ Zo'r! Vazifa bajarildi."
	FallbackWhyReply  = "Tushunarli. Lekin bu vazifani baribir bajarish kerak."

	listLimit = 50
)

// Classifier turns free text into a category, title and optional deadline.
type Classifier interface {
	Classify(ctx context.Context, text string, now time.Time) (ai.Classification, error)
}

// TaskService wraps task-related business logic.
type TaskService struct {
	repo       TaskRepository
	gen        TextGenerator
	classifier Classifier
	routing    *RoutingService
	clock      Clock
	logger     *zap.Logger
}

func NewTaskService(repo TaskRepository, gen TextGenerator, classifier Classifier, routing *RoutingService, clock Clock, logger *zap.Logger) *TaskService {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		repo:       repo,
		gen:        gen,
		classifier: classifier,
		routing:    routing,
		clock:      clock,
		logger:     logger.Named("tasks"),
	}
}

// CreateTask classifies the owner's text and stores it as a pending task
// routed to its category's destination.
func (s *TaskService) CreateTask(ctx context.Context, ownerID int64, text string) (*model.Task, ai.Classification, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ai.Classification{}, errors.New("task text is required")
	}

	class, err := s.classifier.Classify(ctx, text, s.clock.Now())
	if err != nil {
		s.logger.Warn("classification degraded", zap.Error(err))
	}

	dest := s.routing.Destination(class.Category)
	task := &model.Task{
		Text:     text,
		Category: class.Category,
		Status:   model.StatusPending,
		GroupID:  dest.ChatID,
		TopicID:  dest.TopicID,
		OwnerID:  ownerID,
		DueAt:    class.DueAt,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, class, fmt.Errorf("%w: %w", ErrStore, err)
	}

	s.logger.Info("task created",
		zap.Uint("task_id", task.ID),
		zap.String("category", string(task.Category)),
		zap.Bool("has_due", task.DueAt != nil))
	return task, class, nil
}

// ListPending returns the owner's open tasks, deadlines first.
func (s *TaskService) ListPending(ctx context.Context, ownerID int64) ([]model.Task, error) {
	tasks, err := s.repo.ListPendingByOwner(ctx, ownerID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return tasks, nil
}

// MarkDone closes the task and returns a short acknowledgement.
func (s *TaskService) MarkDone(ctx context.Context, taskID uint) (*model.Task, string, error) {
	task, err := s.OpenTask(ctx, taskID)
	if err != nil {
		return nil, "", err
	}

	done := model.StatusDone
	if err := s.repo.Update(ctx, taskID, model.TaskUpdate{Status: &done}); err != nil {
		return nil, "", storeErr(err)
	}
	task.Status = done
	s.logger.Info("task done", zap.Uint("task_id", taskID))

	reply, err := s.gen.Generate(ctx, ai.BuildDonePrompt(*task))
	if err != nil {
		s.logger.Warn("done reply generation failed", zap.Uint("task_id", taskID), zap.Error(err))
		reply = FallbackDoneReply
	}
	return task, reply, nil
}

// RecordNotDone stores the owner's reason and returns the boss's reaction.
// It only writes snooze_reason; overdue_count belongs to the reminder tick.
func (s *TaskService) RecordNotDone(ctx context.Context, taskID uint, reason string) (*model.Task, string, error) {
	task, err := s.OpenTask(ctx, taskID)
	if err != nil {
		return nil, "", err
	}

	reason = strings.TrimSpace(reason)
	if err := s.repo.Update(ctx, taskID, model.TaskUpdate{SnoozeReason: &reason}); err != nil {
		return nil, "", storeErr(err)
	}
	task.SnoozeReason = &reason
	s.logger.Info("reason recorded", zap.Uint("task_id", taskID), zap.Int("overdue_count", task.OverdueCount))

	reply, err := s.gen.Generate(ctx, ai.BuildWhyPrompt(*task, reason, ToneFor(task.OverdueCount)))
	if err != nil {
		s.logger.Warn("why reply generation failed", zap.Uint("task_id", taskID), zap.Error(err))
		reply = FallbackWhyReply
	}
	return task, reply, nil
}

// MarkDoingNow restarts the no-deadline cadence from now. Trigger flags are
// left as they are.
func (s *TaskService) MarkDoingNow(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.OpenTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.repo.Update(ctx, taskID, model.TaskUpdate{RemindedAt: &now}); err != nil {
		return nil, storeErr(err)
	}
	task.RemindedAt = &now
	s.logger.Info("grace period granted", zap.Uint("task_id", taskID))
	return task, nil
}

// OpenTask loads a task that can still be acted on. A done task is returned
// together with ErrTaskClosed.
func (s *TaskService) OpenTask(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, storeErr(err)
	}
	if task.IsDone() {
		return task, ErrTaskClosed
	}
	return task, nil
}

func storeErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}
