package domain

import "time"

type ChatMessageType string

const (
	ChatMessageText   ChatMessageType = "text"
	ChatMessageSystem ChatMessageType = "system"
)

type ChatMessage struct {
	ID        string          `json:"id"`
	EventID   string          `json:"eventId"`
	UserID    string          `json:"userId"`
	UserName  string          `json:"userName"`
	Message   string          `json:"message"`
	Type      ChatMessageType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
}

type ChatStatus struct {
	EventID        string    `json:"eventId"`
	IsActive       bool      `json:"isActive"`
	EventStartTime time.Time `json:"eventStartTime"`
	EventEndTime   time.Time `json:"eventEndTime"`
	CurrentTime    time.Time `json:"currentTime"`
}
