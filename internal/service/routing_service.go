package service

import (
	"taskboss/internal/config"
	"taskboss/internal/model"
)

// RoutingService picks where messages about a category are posted.
type RoutingService struct {
	chatID int64
	topics map[model.Category]int
}

// NewRoutingService posts into groupID, or into the owner's private chat when
// no group is configured. Topics only apply inside a group.
func NewRoutingService(groupID, ownerID int64, topics config.Topics) *RoutingService {
	chatID := groupID
	if chatID == 0 {
		chatID = ownerID
		topics = config.Topics{}
	}
	return &RoutingService{
		chatID: chatID,
		topics: map[model.Category]int{
			model.CategoryWork:     topics.Work,
			model.CategoryPersonal: topics.Personal,
			model.CategoryHealth:   topics.Health,
			model.CategoryOther:    topics.Other,
		},
	}
}

func (s *RoutingService) Destination(category model.Category) model.Destination {
	topic, ok := s.topics[category]
	if !ok {
		topic = s.topics[model.CategoryOther]
	}
	return model.Destination{ChatID: s.chatID, TopicID: topic}
}
