package model

// Trigger names the condition that made a reminder fire.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerPreDue
	TriggerAtDue
	TriggerOverduePenalty
	TriggerPeriodicNoDue
)

func (t Trigger) String() string {
	switch t {
	case TriggerPreDue:
		return "PRE_DUE"
	case TriggerAtDue:
		return "AT_DUE"
	case TriggerOverduePenalty:
		return "OVERDUE_PENALTY"
	case TriggerPeriodicNoDue:
		return "PERIODIC_NO_DUE"
	default:
		return "NONE"
	}
}

// Tone is the escalation tier used to shape generated wording.
// Higher values are harsher.
type Tone int

const (
	ToneNeutralFirm Tone = iota
	ToneImpatient
	ToneSarcastic
	ToneAggressive
)

func (t Tone) String() string {
	switch t {
	case ToneNeutralFirm:
		return "neutral-firm"
	case ToneImpatient:
		return "impatient"
	case ToneSarcastic:
		return "sarcastic"
	default:
		return "aggressive"
	}
}
