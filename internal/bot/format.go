package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskboss/internal/model"
	"taskboss/internal/service"
)

const (
	iconDefault = "🟢"
	iconDue     = "⏳"
	iconOverdue = "⚠️"

	dateLayout = "02.01.2006"
)

var errBadCallback = errors.New("malformed callback data")

func actionLabel(a service.Action) string {
	switch a {
	case service.ActionDone:
		return "✅ Bajarildi"
	case service.ActionNotDone:
		return "❌ Bajarilmadi"
	case service.ActionDoingNow:
		return "⏳ Hozir qilyapman"
	default:
		return string(a)
	}
}

func callbackData(a service.Action, taskID uint) string {
	return fmt.Sprintf("%s:%d", a, taskID)
}

// parseCallback splits "action:id" button data.
func parseCallback(data string) (service.Action, uint, error) {
	raw, idText, ok := strings.Cut(data, ":")
	if !ok {
		return "", 0, errBadCallback
	}
	action := service.Action(raw)
	switch action {
	case service.ActionDone, service.ActionNotDone, service.ActionDoingNow:
	default:
		return "", 0, fmt.Errorf("%w: unknown action %q", errBadCallback, raw)
	}
	id, err := strconv.ParseUint(idText, 10, 64)
	if err != nil || id == 0 {
		return "", 0, fmt.Errorf("%w: bad task id %q", errBadCallback, idText)
	}
	return action, uint(id), nil
}

func actionKeyboard(taskID uint, actions []service.Action) *tgbotapi.InlineKeyboardMarkup {
	if len(actions) == 0 {
		return nil
	}
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, a := range actions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(actionLabel(a), callbackData(a, taskID)))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(row)
	return &markup
}

// formatTaskCard is the message posted into the task's topic on intake.
func formatTaskCard(task model.Task, title string) string {
	if strings.TrimSpace(title) == "" {
		title = shortTitle(task.Text, 40)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n\n", task.Category.Emoji(), escape(normalizeTitle(title)))
	fmt.Fprintf(&b, "📝 %s", escape(task.Text))
	if task.DueAt != nil {
		fmt.Fprintf(&b, "\n📅 Muddat: %s", task.DueAt.Local().Format(dateLayout))
	}
	fmt.Fprintf(&b, "\n\n🆔 Task #%d", task.ID)
	return b.String()
}

func formatIntakeAck(task model.Task) string {
	return fmt.Sprintf("✅ Vazifa qabul qilindi!\n📂 Kategoriya: <b>%s</b>\n📨 #%s mavzusiga joylashtirildi.",
		task.Category, task.Category)
}

// formatTaskList renders pending tasks with a button row per task.
func formatTaskList(tasks []model.Task, now time.Time) (string, *tgbotapi.InlineKeyboardMarkup) {
	var builder strings.Builder
	builder.WriteString("📋 <b>Bajarilmagan vazifalar</b>\n\n")

	buttons := make([][]tgbotapi.InlineKeyboardButton, 0, len(tasks))
	for _, task := range tasks {
		builder.WriteString(formatTask(task, now))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ #%d · %s", task.ID, shortTitle(task.Text, 24)), callbackData(service.ActionDone, task.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌", callbackData(service.ActionNotDone, task.ID)),
			tgbotapi.NewInlineKeyboardButtonData("⏳", callbackData(service.ActionDoingNow, task.ID)),
		))
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(buttons...)
	return strings.TrimSpace(builder.String()), &markup
}

func formatTask(task model.Task, now time.Time) string {
	var b strings.Builder
	icon := iconDefault
	if task.DueAt != nil {
		d := task.DueAt.In(now.Location())
		if now.After(d) {
			icon = iconOverdue
		} else if d.Sub(now) <= 48*time.Hour {
			icon = iconDue
		}
	}
	fmt.Fprintf(&b, "%s <b>#%d</b> %s %s\n", icon, task.ID, task.Category.Emoji(), escape(shortTitle(task.Text, 80)))
	if task.DueAt != nil {
		d := task.DueAt.In(now.Location())
		if now.After(d) {
			fmt.Fprintf(&b, "   📅 Muddat: %s, <b>o'tib ketdi</b>\n", d.Format(dateLayout))
		} else {
			fmt.Fprintf(&b, "   📅 Muddat: %s\n", d.Format(dateLayout))
		}
	}
	if task.OverdueCount > 0 {
		fmt.Fprintf(&b, "   🔁 Eslatmalar: %d\n", task.OverdueCount)
	}
	b.WriteByte('\n')
	return b.String()
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func escape(s string) string {
	return html.EscapeString(s)
}
