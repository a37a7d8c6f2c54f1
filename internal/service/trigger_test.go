package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskboss/internal/model"
)

var base = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func TestEvaluateTrigger_PreDue(t *testing.T) {
	due := base
	task := model.Task{DueAt: &due, CreatedAt: base.Add(-24 * time.Hour), Status: model.StatusPending}

	assert.Equal(t, model.TriggerPreDue, EvaluateTrigger(task, due.Add(-30*time.Minute)))
	assert.Equal(t, model.TriggerPreDue, EvaluateTrigger(task, due.Add(-time.Hour)))
	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, due.Add(-61*time.Minute)))

	task.RemindedBeforeDue = true
	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, due.Add(-10*time.Minute)))
}

func TestEvaluateTrigger_DueExactlyNowIsAtDue(t *testing.T) {
	due := base
	task := model.Task{DueAt: &due, Status: model.StatusPending}

	assert.Equal(t, model.TriggerAtDue, EvaluateTrigger(task, due))
}

func TestEvaluateTrigger_AtDueThenPenalty(t *testing.T) {
	due := base
	task := model.Task{DueAt: &due, RemindedBeforeDue: true, Status: model.StatusPending}

	now := due.Add(5 * time.Minute)
	assert.Equal(t, model.TriggerAtDue, EvaluateTrigger(task, now))

	task.DeadlineAskedAt = &now
	task.RemindedAt = &now
	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, due.Add(20*time.Minute)))
	assert.Equal(t, model.TriggerOverduePenalty, EvaluateTrigger(task, due.Add(35*time.Minute)))
}

func TestEvaluateTrigger_AfterPenaltyFollowsPeriodicCadence(t *testing.T) {
	due := base
	penaltyAt := due.Add(35 * time.Minute)
	task := model.Task{
		DueAt:               &due,
		RemindedBeforeDue:   true,
		RemindedAt:          &penaltyAt,
		DeadlinePenalizedAt: &penaltyAt,
		OverdueCount:        1,
		Status:              model.StatusPending,
	}

	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, penaltyAt.Add(time.Minute)))
	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, penaltyAt.Add(47*time.Hour)))
	assert.Equal(t, model.TriggerPeriodicNoDue, EvaluateTrigger(task, penaltyAt.Add(48*time.Hour)))
}

func TestEvaluateTrigger_PreDueReminderDoesNotEndDeadlineCycle(t *testing.T) {
	due := base
	preDueAt := due.Add(-30 * time.Minute)
	task := model.Task{DueAt: &due, RemindedBeforeDue: true, RemindedAt: &preDueAt, Status: model.StatusPending}

	assert.Equal(t, model.TriggerAtDue, EvaluateTrigger(task, due.Add(time.Minute)))
}

func TestEvaluateTrigger_DoingNowAfterDueKeepsDeadlineCycle(t *testing.T) {
	due := base
	pressedAt := due.Add(2 * time.Minute)
	task := model.Task{DueAt: &due, RemindedBeforeDue: true, RemindedAt: &pressedAt, Status: model.StatusPending}

	assert.Equal(t, model.TriggerAtDue, EvaluateTrigger(task, due.Add(10*time.Minute)))
	assert.Equal(t, model.TriggerAtDue, EvaluateTrigger(task, due.Add(24*time.Hour)))
}

func TestEvaluateTrigger_NoDuePeriodic(t *testing.T) {
	task := model.Task{CreatedAt: base, Status: model.StatusPending}

	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, base.Add(47*time.Hour)))
	fired := base.Add(49 * time.Hour)
	assert.Equal(t, model.TriggerPeriodicNoDue, EvaluateTrigger(task, fired))

	task.RemindedAt = &fired
	task.OverdueCount = 1
	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, fired.Add(47*time.Hour)))
	assert.Equal(t, model.TriggerPeriodicNoDue, EvaluateTrigger(task, fired.Add(49*time.Hour)))
}

func TestEvaluateTrigger_DoneNeverFires(t *testing.T) {
	due := base
	task := model.Task{DueAt: &due, Status: model.StatusDone}

	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, due.Add(time.Hour)))
	task.DueAt = nil
	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, base.Add(100*time.Hour)))
}

func TestEvaluateTrigger_FutureDueIsQuiet(t *testing.T) {
	due := base.Add(72 * time.Hour)
	task := model.Task{DueAt: &due, CreatedAt: base.Add(-100 * time.Hour), Status: model.StatusPending}

	assert.Equal(t, model.TriggerNone, EvaluateTrigger(task, base))
}

func TestFlagUpdate(t *testing.T) {
	now := base

	pre := flagUpdate(model.TriggerPreDue, now)
	assert.Equal(t, ptr(true), pre.RemindedBeforeDue)
	assert.Equal(t, &now, pre.RemindedAt)
	assert.False(t, pre.IncrementOverdue)

	at := flagUpdate(model.TriggerAtDue, now)
	assert.Equal(t, &now, at.DeadlineAskedAt)
	assert.False(t, at.IncrementOverdue)

	penalty := flagUpdate(model.TriggerOverduePenalty, now)
	assert.True(t, penalty.IncrementOverdue)
	assert.True(t, penalty.ClearDeadlineAsk)
	assert.Equal(t, &now, penalty.DeadlinePenalizedAt)

	assert.Nil(t, pre.DeadlinePenalizedAt)
	assert.Nil(t, at.DeadlinePenalizedAt)

	periodic := flagUpdate(model.TriggerPeriodicNoDue, now)
	assert.True(t, periodic.IncrementOverdue)
	assert.False(t, periodic.ClearDeadlineAsk)
	assert.Nil(t, periodic.DeadlinePenalizedAt)
}

func TestToneFor(t *testing.T) {
	assert.Equal(t, model.ToneNeutralFirm, ToneFor(0))
	assert.Equal(t, model.ToneNeutralFirm, ToneFor(-2))
	assert.Equal(t, model.ToneImpatient, ToneFor(1))
	assert.Equal(t, model.ToneSarcastic, ToneFor(2))
	assert.Equal(t, model.ToneAggressive, ToneFor(3))
	assert.Equal(t, model.ToneAggressive, ToneFor(40))

	for n := 0; n < 10; n++ {
		assert.LessOrEqual(t, ToneFor(n), ToneFor(n+1))
	}
	assert.Less(t, ToneFor(0), ToneFor(1))
	assert.Less(t, ToneFor(1), ToneFor(2))
	assert.Less(t, ToneFor(2), ToneFor(3))
}
