package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"taskboss/internal/model"
	"taskboss/internal/service"
)

const (
	msgStart = "👋 Salom! Men TaskBoss, sening shaxsiy vazifa menejeringman.\n\n" +
		"📌 Guruhga vazifa yoz yoki shu yerda /task buyrug'ini ishlat, men uni tasniflab, to'g'ri mavzuga qo'yaman.\n" +
		"⚠️ Guruhda faqat asosiy chatga (General) yoz: mavzular ichidagi har bir xabaring ham yangi vazifa bo'lib qoladi.\n" +
		"⏰ Muddatingni o'tkazib yuborsang, men senga xabar beraman.\n" +
		"📋 /tasks: bajarilmagan vazifalar\n" +
		"🔄 /reset: suhbat tarixini tozalash\n" +
		"💬 Bu yerda men bilan erkin suhbatlashishing mumkin!"
	msgTaskUsage      = "Vazifa matnini yoz: /task ertaga hisobot topshirish"
	msgUnknownCommand = "Bunday buyruq yo'q. /start ni bosib ko'r."
	msgReset          = "🔄 Suhbat tarixi tozalandi."
	msgNoTasks        = "🎉 Bajarilmagan vazifa yo'q."
	msgTryAgain       = "⚠️ Xatolik yuz berdi, birozdan keyin qayta urinib ko'r."
	msgTaskNotFound   = "❌ Vazifa topilmadi."
	msgTaskClosed     = "✅ Bu vazifa allaqachon bajarilgan."
	msgAskReason      = "❌ Nima uchun bajarilmadi? Sababini yozing:"
	msgDoingNow       = "⏳ Yaxshi, omad!"
	msgDonePrefix     = "✅ Bajarildi!\n\n"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		err = b.handleMessage(ctx, update.Message)
	}
	if err != nil {
		b.logger.Error("handle update", zap.Int("update_id", update.UpdateID), zap.Error(err))
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil || msg.Chat == nil || strings.TrimSpace(msg.Text) == "" {
		return nil
	}
	if msg.From.ID != b.ownerID {
		b.logger.Debug("ignore message from stranger", zap.Int64("user_id", msg.From.ID))
		return nil
	}

	switch {
	case msg.Chat.IsPrivate():
		return b.handlePrivate(ctx, msg)
	case b.groupID != 0 && msg.Chat.ID == b.groupID:
		return b.handleGroup(ctx, msg)
	default:
		return nil
	}
}

func (b *Bot) handleGroup(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.IsCommand() {
		return b.handleCommand(ctx, msg)
	}
	if taskID, ok := b.takePendingReason(msg.Chat.ID); ok {
		return b.recordReason(ctx, msg, taskID)
	}
	return b.createTask(ctx, msg.Chat.ID, msg.Text)
}

func (b *Bot) handlePrivate(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.IsCommand() {
		return b.handleCommand(ctx, msg)
	}
	if taskID, ok := b.takePendingReason(msg.Chat.ID); ok {
		return b.recordReason(ctx, msg, taskID)
	}
	if isResetInput(msg.Text) {
		return b.resetConversation(msg)
	}

	tasks, err := b.tasks.ListPending(ctx, b.ownerID)
	if err != nil {
		b.logger.Warn("load chat context", zap.Error(err))
	}
	reply := b.chat.Chat(ctx, msg.From.ID, msg.Text, service.ContextTasks(tasks))
	return b.sendText(model.Destination{ChatID: msg.Chat.ID}, reply)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	b.logger.Info("command", zap.Int64("chat_id", msg.Chat.ID), zap.String("command", msg.Command()))
	dest := model.Destination{ChatID: msg.Chat.ID}

	switch msg.Command() {
	case "start", "help":
		return b.sendText(dest, msgStart)
	case "tasks":
		return b.sendTaskList(ctx, msg.Chat.ID)
	case "task":
		text := strings.TrimSpace(msg.CommandArguments())
		if text == "" {
			return b.sendText(dest, msgTaskUsage)
		}
		return b.createTask(ctx, msg.Chat.ID, text)
	case "reset":
		return b.resetConversation(msg)
	default:
		return b.sendText(dest, msgUnknownCommand)
	}
}

func (b *Bot) resetConversation(msg *tgbotapi.Message) error {
	b.chat.ResetConversation(msg.From.ID)
	return b.sendText(model.Destination{ChatID: msg.Chat.ID}, msgReset)
}

// createTask files the owner's text as a task, posts it to its destination
// and confirms in the chat it came from.
func (b *Bot) createTask(ctx context.Context, chatID int64, text string) error {
	dest := model.Destination{ChatID: chatID}

	task, class, err := b.tasks.CreateTask(ctx, b.ownerID, text)
	if err != nil {
		if errors.Is(err, service.ErrStore) {
			b.logger.Error("create task", zap.Error(err))
			return b.sendText(dest, msgTryAgain)
		}
		return err
	}

	card := formatTaskCard(*task, class.ShortTitle)
	if err := b.sendHTML(task.Destination(), card, actionKeyboard(task.ID, service.ReminderActions)); err != nil {
		return err
	}
	return b.sendHTML(dest, formatIntakeAck(*task), nil)
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64) error {
	dest := model.Destination{ChatID: chatID}

	tasks, err := b.tasks.ListPending(ctx, b.ownerID)
	if err != nil {
		b.logger.Error("list tasks", zap.Error(err))
		return b.sendText(dest, msgTryAgain)
	}
	if len(tasks) == 0 {
		return b.sendText(dest, msgNoTasks)
	}

	text, markup := formatTaskList(tasks, time.Now())
	return b.sendHTML(dest, text, markup)
}

func (b *Bot) recordReason(ctx context.Context, msg *tgbotapi.Message, taskID uint) error {
	task, reply, err := b.tasks.RecordNotDone(ctx, taskID, msg.Text)
	if err != nil {
		dest := model.Destination{ChatID: msg.Chat.ID}
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			return b.sendText(dest, msgTaskNotFound)
		case errors.Is(err, service.ErrTaskClosed):
			return b.sendText(dest, msgTaskClosed)
		default:
			b.logger.Error("record reason", zap.Uint("task_id", taskID), zap.Error(err))
			b.setPendingReason(msg.Chat.ID, taskID)
			return b.sendText(dest, msgTryAgain)
		}
	}
	return b.sendText(replyDest(msg.Chat.ID, task), reply)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	b.answerCallback(cb.ID)
	if cb.From.ID != b.ownerID {
		b.logger.Debug("ignore callback from stranger", zap.Int64("user_id", cb.From.ID))
		return nil
	}

	action, taskID, err := parseCallback(cb.Data)
	if err != nil {
		b.logger.Warn("bad callback data", zap.String("data", cb.Data), zap.Error(err))
		return nil
	}
	b.logger.Info("callback", zap.String("action", string(action)), zap.Uint("task_id", taskID))

	chatID, messageID := cb.Message.Chat.ID, cb.Message.MessageID
	switch action {
	case service.ActionDone:
		_, reply, err := b.tasks.MarkDone(ctx, taskID)
		if err != nil {
			return b.reportTaskError(chatID, messageID, err)
		}
		return b.editText(chatID, messageID, msgDonePrefix+reply)

	case service.ActionNotDone:
		if _, err := b.tasks.OpenTask(ctx, taskID); err != nil {
			return b.reportTaskError(chatID, messageID, err)
		}
		b.setPendingReason(chatID, taskID)
		return b.editText(chatID, messageID, msgAskReason)

	case service.ActionDoingNow:
		task, err := b.tasks.MarkDoingNow(ctx, taskID)
		if err != nil {
			return b.reportTaskError(chatID, messageID, err)
		}
		return b.sendText(replyDest(chatID, task), msgDoingNow)
	}
	return nil
}

func (b *Bot) reportTaskError(chatID int64, messageID int, err error) error {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return b.editText(chatID, messageID, msgTaskNotFound)
	case errors.Is(err, service.ErrTaskClosed):
		return b.editText(chatID, messageID, msgTaskClosed)
	default:
		b.logger.Error("task action", zap.Error(err))
		return b.sendText(model.Destination{ChatID: chatID}, msgTryAgain)
	}
}

func isResetInput(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "reset", "clear":
		return true
	}
	return false
}
