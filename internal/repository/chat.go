package repository

import (
	"context"
	"fmt"

	"github.com/campusconnect/campus-api/internal/domain"
	"github.com/campusconnect/campus-api/internal/repository/dao"
)

type ChatDAO interface {
	Insert(ctx context.Context, message dao.ChatMessage) (dao.ChatMessage, error)
	FindByEvent(ctx context.Context, eventID string, limit, offset int) ([]dao.ChatMessage, error)
}

type ChatRepository struct {
	dao ChatDAO
}

func NewChatRepository(dao ChatDAO) *ChatRepository {
	return &ChatRepository{
		dao: dao,
	}
}

func (r *ChatRepository) Create(ctx context.Context, m domain.ChatMessage) (domain.ChatMessage, error) {
	created, err := r.dao.Insert(ctx, dao.ChatMessage{
		ID:        m.ID,
		EventID:   m.EventID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Message:   m.Message,
		Type:      string(m.Type),
		Timestamp: m.Timestamp,
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ChatRepository) ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]domain.ChatMessage, error) {
	messages, err := r.dao.FindByEvent(ctx, eventID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	domainMessages := make([]domain.ChatMessage, len(messages))
	for i, m := range messages {
		domainMessages[i] = r.daoToDomain(m)
	}

	return domainMessages, nil
}

func (r *ChatRepository) daoToDomain(m dao.ChatMessage) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        m.ID,
		EventID:   m.EventID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Message:   m.Message,
		Type:      domain.ChatMessageType(m.Type),
		Timestamp: m.Timestamp,
	}
}
