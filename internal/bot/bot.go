package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"taskboss/internal/config"
	"taskboss/internal/model"
	"taskboss/internal/service"
)

const defaultWorkers = 4

// telegramAPI is the part of *tgbotapi.BotAPI the bot uses.
type telegramAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// Bot connects the Telegram API with the services. It delivers reminders
// and handles the owner's messages and button presses.
type Bot struct {
	api     telegramAPI
	tasks   *service.TaskService
	chat    *service.ChatService
	ownerID int64
	groupID int64
	workers int
	logger  *zap.Logger
	reasons map[int64]uint
	mu      sync.Mutex
}

var _ service.Notifier = (*Bot)(nil)

func New(token string, tasks *service.TaskService, chat *service.ChatService, cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	b := newBot(api, tasks, chat, cfg.OwnerID, cfg.GroupID, logger)
	b.logger.Info("bot authorized", zap.String("account", api.Self.UserName))
	return b, nil
}

func newBot(api telegramAPI, tasks *service.TaskService, chat *service.ChatService, ownerID, groupID int64, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:     api,
		tasks:   tasks,
		chat:    chat,
		ownerID: ownerID,
		groupID: groupID,
		workers: defaultWorkers,
		logger:  logger.Named("bot"),
		reasons: make(map[int64]uint),
	}
}

// Start polls updates until ctx is cancelled and waits for the handlers in
// flight.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	stop := context.AfterFunc(ctx, b.api.StopReceivingUpdates)
	defer stop()

	b.logger.Info("start polling updates")

	var g errgroup.Group
	g.SetLimit(b.workers)
	for update := range updates {
		g.Go(func() error {
			b.handleUpdate(ctx, update)
			return nil
		})
	}
	return g.Wait()
}

// Notify posts a notification to its destination with one button per action.
func (b *Bot) Notify(ctx context.Context, n service.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.send(outgoing{
		dest:   n.Destination,
		text:   n.Text,
		markup: actionKeyboard(n.TaskID, n.Actions),
	})
}

type outgoing struct {
	dest   model.Destination
	text   string
	html   bool
	markup *tgbotapi.InlineKeyboardMarkup
}

func (b *Bot) send(out outgoing) error {
	if out.dest.TopicID == 0 {
		msg := tgbotapi.NewMessage(out.dest.ChatID, out.text)
		if out.html {
			msg.ParseMode = tgbotapi.ModeHTML
		}
		if out.markup != nil {
			msg.ReplyMarkup = *out.markup
		}
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		return nil
	}

	// MessageConfig has no message_thread_id in this client version.
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", out.dest.ChatID)
	params.AddNonZero("message_thread_id", out.dest.TopicID)
	params["text"] = out.text
	if out.html {
		params["parse_mode"] = tgbotapi.ModeHTML
	}
	if out.markup != nil {
		if err := params.AddInterface("reply_markup", out.markup); err != nil {
			return fmt.Errorf("encode reply markup: %w", err)
		}
	}
	if _, err := b.api.MakeRequest("sendMessage", params); err != nil {
		return fmt.Errorf("send topic message: %w", err)
	}
	return nil
}

func (b *Bot) sendText(dest model.Destination, text string) error {
	return b.send(outgoing{dest: dest, text: text})
}

func (b *Bot) sendHTML(dest model.Destination, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	return b.send(outgoing{dest: dest, text: text, html: true, markup: markup})
}

// editText replaces a message's text. The inline keyboard is dropped.
func (b *Bot) editText(chatID int64, messageID int, text string) error {
	if _, err := b.api.Request(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (b *Bot) answerCallback(id string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		b.logger.Warn("callback ack", zap.Error(err))
	}
}

func (b *Bot) setPendingReason(chatID int64, taskID uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reasons[chatID] = taskID
}

// takePendingReason returns and forgets the task waiting for a reason in chatID.
func (b *Bot) takePendingReason(chatID int64) (uint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	taskID, ok := b.reasons[chatID]
	if ok {
		delete(b.reasons, chatID)
	}
	return taskID, ok
}

// replyDest answers inside the task's topic when the interaction happened in
// the task's group, and in the chat itself otherwise.
func replyDest(chatID int64, task *model.Task) model.Destination {
	if task != nil && task.GroupID == chatID {
		return task.Destination()
	}
	return model.Destination{ChatID: chatID}
}
