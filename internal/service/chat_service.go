package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"taskboss/internal/ai"
	"taskboss/internal/conversation"
	"taskboss/internal/model"
)

const FallbackChatReply = "Hozir javob bera olmayman, birozdan keyin yana yozib ko'r."

// ChatService holds multi-turn private conversations with the owner.
type ChatService struct {
	gen    ChatGenerator
	buffer *conversation.Buffer
	clock  Clock
	logger *zap.Logger
}

func NewChatService(gen ChatGenerator, buffer *conversation.Buffer, clock Clock, logger *zap.Logger) *ChatService {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{gen: gen, buffer: buffer, clock: clock, logger: logger.Named("chat")}
}

// Chat replies to message using the user's recent history and, when given,
// their pending tasks as context. Failed generations are answered with a
// static reply and are not added to the history.
func (s *ChatService) Chat(ctx context.Context, userID int64, message string, pending []ai.ContextTask) string {
	message = strings.TrimSpace(message)
	history := s.buffer.Recent(userID, s.buffer.Capacity())

	reply, err := s.gen.GenerateChat(ctx, ai.BuildChatSystemPrompt(pending), history, message)
	if err != nil {
		s.logger.Warn("chat generation failed", zap.Int64("user_id", userID), zap.Error(err))
		return FallbackChatReply
	}

	s.buffer.Append(userID, model.ConversationEntry{UserMessage: message, Reply: reply, At: s.clock.Now()})
	return reply
}

// ResetConversation forgets the user's history.
func (s *ChatService) ResetConversation(userID int64) {
	s.buffer.Clear(userID)
	s.logger.Info("conversation reset", zap.Int64("user_id", userID))
}

// ContextTasks summarises tasks for BuildChatSystemPrompt.
func ContextTasks(tasks []model.Task) []ai.ContextTask {
	out := make([]ai.ContextTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ai.ContextTask{Text: t.Text, Category: t.Category})
	}
	return out
}
