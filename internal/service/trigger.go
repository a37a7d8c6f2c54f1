package service

import (
	"time"

	"taskboss/internal/model"
)

const (
	preDueWindow     = time.Hour
	overduePenalty   = 30 * time.Minute
	noDeadlineWindow = 48 * time.Hour
)

// EvaluateTrigger decides which reminder, if any, is due for a pending task
// at now. Rules are checked in order and the first match wins:
//
//  1. PRE_DUE: now in [dueAt-1h, dueAt) and not yet reminded before due.
//  2. AT_DUE: now >= dueAt and the deadline has not been asked about.
//  3. OVERDUE_PENALTY: 30 minutes after the deadline was asked about.
//  4. PERIODIC_NO_DUE: 48 hours after the last reminder (or creation).
//
// Once the penalty has fired the deadline cycle is over and the task follows
// rule 4 anchored on remindedAt, even though dueAt is set. A "doing now" press
// moves remindedAt but never ends the cycle.
func EvaluateTrigger(task model.Task, now time.Time) model.Trigger {
	if task.IsDone() {
		return model.TriggerNone
	}

	if task.DueAt != nil {
		due := *task.DueAt
		if !task.RemindedBeforeDue && !now.Before(due.Add(-preDueWindow)) && now.Before(due) {
			return model.TriggerPreDue
		}
		if !now.Before(due) && task.DeadlineAskedAt == nil && !deadlineCycleDone(task) {
			return model.TriggerAtDue
		}
	}

	if task.DeadlineAskedAt != nil && !now.Before(task.DeadlineAskedAt.Add(overduePenalty)) {
		return model.TriggerOverduePenalty
	}

	if task.DueAt == nil || deadlineCycleDone(task) {
		anchor := task.CreatedAt
		if task.RemindedAt != nil {
			anchor = *task.RemindedAt
		}
		if !now.Before(anchor.Add(noDeadlineWindow)) {
			return model.TriggerPeriodicNoDue
		}
	}

	return model.TriggerNone
}

// deadlineCycleDone reports whether the overdue penalty has already run for
// the task's deadline.
func deadlineCycleDone(task model.Task) bool {
	return task.DueAt != nil && task.DeadlineAskedAt == nil && task.DeadlinePenalizedAt != nil
}

// flagUpdate is the persisted change that goes with a fired trigger.
func flagUpdate(trigger model.Trigger, now time.Time) model.TaskUpdate {
	upd := model.TaskUpdate{RemindedAt: &now}
	switch trigger {
	case model.TriggerPreDue:
		yes := true
		upd.RemindedBeforeDue = &yes
	case model.TriggerAtDue:
		upd.DeadlineAskedAt = &now
	case model.TriggerOverduePenalty:
		upd.IncrementOverdue = true
		upd.ClearDeadlineAsk = true
		upd.DeadlinePenalizedAt = &now
	case model.TriggerPeriodicNoDue:
		upd.IncrementOverdue = true
	}
	return upd
}
