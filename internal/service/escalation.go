package service

import "taskboss/internal/model"

// ToneFor maps how many times a task has gone unaddressed to a tone tier.
// Negative counts are treated as zero.
func ToneFor(overdueCount int) model.Tone {
	switch {
	case overdueCount <= 0:
		return model.ToneNeutralFirm
	case overdueCount == 1:
		return model.ToneImpatient
	case overdueCount == 2:
		return model.ToneSarcastic
	default:
		return model.ToneAggressive
	}
}
