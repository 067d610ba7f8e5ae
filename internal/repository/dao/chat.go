package dao

import (
	"context"
	"time"

	"github.com/campusconnect/campus-api/internal/db"
)

type ChatMessage struct {
	ID        string    `gorm:"primaryKey;size:64"`
	EventID   string    `gorm:"size:64;not null;index:idx_chat_messages_event_time,priority:1"`
	UserID    string    `gorm:"size:128;not null"`
	UserName  string    `gorm:"not null"`
	Message   string    `gorm:"type:text;not null"`
	Type      string    `gorm:"size:16;not null;default:text"`
	Timestamp time.Time `gorm:"not null;index:idx_chat_messages_event_time,priority:2"`
}

type ChatDAO struct {
	h *db.Handle
}

func NewChatDAO(h *db.Handle) *ChatDAO {
	return &ChatDAO{
		h: h,
	}
}

func (d *ChatDAO) Insert(ctx context.Context, message ChatMessage) (ChatMessage, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return ChatMessage{}, err
	}

	if err = conn.Create(&message).Error; err != nil {
		return ChatMessage{}, err
	}

	return message, nil
}

// FindByEvent pages through an event's messages, oldest first.
func (d *ChatDAO) FindByEvent(ctx context.Context, eventID string, limit, offset int) ([]ChatMessage, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var messages []ChatMessage
	err = conn.Where("event_id = ?", eventID).
		Order("timestamp ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}
