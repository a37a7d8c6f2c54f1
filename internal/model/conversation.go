package model

import "time"

// ConversationEntry is one exchange in a user's private chat with the bot.
type ConversationEntry struct {
	UserMessage string
	Reply       string
	At          time.Time
}
