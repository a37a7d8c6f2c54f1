package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"taskboss/internal/ai"
	"taskboss/internal/model"
)

const (
	prefixAtDue  = "⏰ Muddat keldi!\n\n"
	prefixPreDue = "1 soat qoldi! "

	defaultGenerationTimeout = 2 * time.Minute
)

// FallbackReminder is sent when no reminder text could be generated.
func FallbackReminder(task model.Task) string {
	return fmt.Sprintf("⏰ Hali bajarilmagan vazifa bor: %s", task.Text)
}

// TickReport summarises one pass over the pending tasks.
type TickReport struct {
	ID        string
	Pending   int
	Fired     int
	Sent      int
	Failed    int
	Fallbacks int
}

// ReminderService runs the reminder tick: it evaluates every pending task,
// sends reminders for fired triggers and records which trigger fired.
type ReminderService struct {
	store    TaskStore
	gen      TextGenerator
	notifier Notifier
	clock    Clock
	logger   *zap.Logger

	genTimeout time.Duration
	inflight   singleflight.Group
	tickMu     sync.Mutex
}

func NewReminderService(store TaskStore, gen TextGenerator, notifier Notifier, clock Clock, logger *zap.Logger) *ReminderService {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		store:      store,
		gen:        gen,
		notifier:   notifier,
		clock:      clock,
		logger:     logger.Named("reminder"),
		genTimeout: defaultGenerationTimeout,
	}
}

// SetGenerationTimeout bounds a single reminder's text generation.
func (s *ReminderService) SetGenerationTimeout(d time.Duration) {
	if d > 0 {
		s.genTimeout = d
	}
}

// Run performs one tick at the clock's current time.
func (s *ReminderService) Run(ctx context.Context) error {
	_, err := s.Tick(ctx, s.clock.Now())
	return err
}

// Tick processes every pending task once. Ticks never overlap; a second call
// waits for the running one. Failures on one task are logged and do not stop
// the others. Only a failure to list tasks is returned.
func (s *ReminderService) Tick(ctx context.Context, now time.Time) (TickReport, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	report := TickReport{ID: uuid.NewString()}
	logger := s.logger.With(zap.String("tick_id", report.ID))

	tasks, err := s.store.ListPending(ctx)
	if err != nil {
		logger.Error("list pending tasks", zap.Error(err))
		return report, fmt.Errorf("%w: %w", ErrStore, err)
	}
	report.Pending = len(tasks)

	for _, task := range tasks {
		if ctx.Err() != nil {
			logger.Warn("tick interrupted", zap.Error(ctx.Err()))
			break
		}
		trigger := EvaluateTrigger(task, now)
		if trigger == model.TriggerNone {
			continue
		}
		report.Fired++

		fallback, err := s.remind(ctx, task, trigger, now)
		if fallback {
			report.Fallbacks++
		}
		if err != nil {
			report.Failed++
			logger.Error("reminder failed",
				zap.Uint("task_id", task.ID),
				zap.Stringer("trigger", trigger),
				zap.Error(err))
			continue
		}
		report.Sent++
		logger.Info("reminder sent",
			zap.Uint("task_id", task.ID),
			zap.Stringer("trigger", trigger),
			zap.Int("overdue_count", task.OverdueCount))
	}

	if report.Fired > 0 {
		logger.Info("tick finished",
			zap.Int("pending", report.Pending),
			zap.Int("fired", report.Fired),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed))
	}
	return report, nil
}

// remind sends one reminder and persists the trigger's flags. The bool
// reports whether the static fallback text was used.
func (s *ReminderService) remind(ctx context.Context, task model.Task, trigger model.Trigger, now time.Time) (bool, error) {
	text, fallback := s.reminderText(ctx, task, trigger)

	err := s.notifier.Notify(ctx, Notification{
		Destination: task.Destination(),
		Text:        text,
		TaskID:      task.ID,
		Actions:     ReminderActions,
	})
	if err != nil {
		return fallback, fmt.Errorf("send reminder: %w", err)
	}

	if err := s.store.Update(ctx, task.ID, flagUpdate(trigger, now)); err != nil {
		return fallback, fmt.Errorf("%w: record %s: %w", ErrStore, trigger, err)
	}
	return fallback, nil
}

func (s *ReminderService) reminderText(ctx context.Context, task model.Task, trigger model.Trigger) (string, bool) {
	prompt := ai.BuildReminderPrompt(task, ToneFor(task.OverdueCount))
	text, err := s.generate(ctx, task.ID, prompt)
	if err != nil {
		s.logger.Warn("reminder generation failed, using fallback",
			zap.Uint("task_id", task.ID),
			zap.Bool("exhausted", errors.Is(err, ai.ErrAllProvidersExhausted)),
			zap.Error(err))
		return FallbackReminder(task), true
	}

	switch trigger {
	case model.TriggerAtDue:
		text = prefixAtDue + text
	case model.TriggerPreDue:
		text = prefixPreDue + text
	}
	return text, false
}

// generate runs the model call on its own goroutine, shared by concurrent
// callers for the same task, and gives up after genTimeout.
func (s *ReminderService) generate(ctx context.Context, taskID uint, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	ch := s.inflight.DoChan(strconv.FormatUint(uint64(taskID), 10), func() (interface{}, error) {
		return s.gen.Generate(ctx, prompt)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
