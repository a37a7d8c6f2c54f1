package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryWork, ParseCategory(" Work "))
	assert.Equal(t, CategoryHealth, ParseCategory("health"))
	assert.Equal(t, CategoryPersonal, ParseCategory("PERSONAL"))
	assert.Equal(t, CategoryOther, ParseCategory("shopping"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}

func TestTaskDestination(t *testing.T) {
	task := Task{GroupID: -100, TopicID: 3}
	assert.Equal(t, Destination{ChatID: -100, TopicID: 3}, task.Destination())
	assert.False(t, task.IsDone())

	task.Status = StatusDone
	assert.True(t, task.IsDone())
}

func TestTaskUpdateIsEmpty(t *testing.T) {
	assert.True(t, TaskUpdate{}.IsEmpty())
	assert.False(t, TaskUpdate{IncrementOverdue: true}.IsEmpty())
	assert.False(t, TaskUpdate{ClearDeadlineAsk: true}.IsEmpty())
	now := time.Now()
	assert.False(t, TaskUpdate{DeadlinePenalizedAt: &now}.IsEmpty())
}

func TestTriggerAndToneNames(t *testing.T) {
	assert.Equal(t, "PRE_DUE", TriggerPreDue.String())
	assert.Equal(t, "OVERDUE_PENALTY", TriggerOverduePenalty.String())
	assert.Equal(t, "NONE", TriggerNone.String())
	assert.Equal(t, "sarcastic", ToneSarcastic.String())
	assert.Less(t, ToneNeutralFirm, ToneAggressive)
}
