package ai

import (
	"fmt"
	"strings"

	"taskboss/internal/model"
)

// maxContextTasks caps how many pending tasks are listed in the chat prompt.
const maxContextTasks = 10

// ContextTask is a pending task summarised for chat grounding.
type ContextTask struct {
	Text     string
	Category model.Category
}

func toneDescription(tone model.Tone) string {
	switch tone {
	case model.ToneNeutralFirm:
		return "firm and professional"
	case model.ToneImpatient:
		return "impatient and clearly annoyed that it is still not done"
	case model.ToneSarcastic:
		return "sarcastic and impatient"
	default:
		return "very aggressive and no-nonsense, like an angry boss who is fed up"
	}
}

// BuildReminderPrompt asks for a reminder about a pending task in the given tone.
func BuildReminderPrompt(task model.Task, tone model.Tone) string {
	var b strings.Builder
	b.WriteString(bossPersona)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tone: %s\n\n", toneDescription(tone))
	fmt.Fprintf(&b, "Pending task: %q\n", task.Text)
	fmt.Fprintf(&b, "Category: %s\n", task.Category)
	fmt.Fprintf(&b, "Times reminded already: %d\n", task.OverdueCount)
	if task.SnoozeReason != nil && strings.TrimSpace(*task.SnoozeReason) != "" {
		fmt.Fprintf(&b, "Last excuse they gave: %q\n", strings.TrimSpace(*task.SnoozeReason))
	}
	b.WriteString("\nWrite 2-3 sentences. End by asking: did you do it? Tell them to press ✅ or ❌.")
	return b.String()
}

// BuildWhyPrompt asks for a reaction to the owner's reason for not finishing.
func BuildWhyPrompt(task model.Task, reason string, tone model.Tone) string {
	var b strings.Builder
	b.WriteString(bossPersona)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tone: %s\n\n", toneDescription(tone))
	fmt.Fprintf(&b, "The user hasn't done this task: %q\n", task.Text)
	fmt.Fprintf(&b, "Their excuse: %q\n", strings.TrimSpace(reason))
	b.WriteString("\nReact like a firm but fair boss. Acknowledge briefly, then tell them to get it done.\nMax 2-3 sentences.")
	return b.String()
}

// BuildDonePrompt asks for a short, satisfied acknowledgement.
func BuildDonePrompt(task model.Task) string {
	var b strings.Builder
	b.WriteString("You are a boss assistant. Reply in UZBEK (informal 'sen' form).\n")
	fmt.Fprintf(&b, "The user just completed: %q\n", task.Text)
	b.WriteString("Give a genuine 1-2 sentence congratulation. Warm but professional, satisfied and brief.")
	return b.String()
}

// BuildChatSystemPrompt grounds the chat persona in the owner's open tasks.
func BuildChatSystemPrompt(tasks []ContextTask) string {
	if len(tasks) == 0 {
		return chatSystemPrompt
	}
	var b strings.Builder
	b.WriteString(chatSystemPrompt)
	b.WriteString("\n\nFoydalanuvchining bajarilmagan vazifalari:\n")
	for i, task := range tasks {
		if i == maxContextTasks {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s\n", task.Category, strings.TrimSpace(task.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildClassifierPrompt(text, today string) string {
	names := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		names = append(names, fmt.Sprintf("%q", string(c)))
	}
	return fmt.Sprintf(classifierPrompt, text, today, "["+strings.Join(names, ", ")+"]")
}
