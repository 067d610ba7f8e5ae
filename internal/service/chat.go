package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/campusconnect/campus-api/internal/domain"
)

var ErrInvalidChatMessage = errors.New("message must be between 1 and 1000 characters")

const (
	MaxChatMessageLength = 1000
	DefaultChatPageSize  = 50
	MaxChatPageSize      = 200

	chatWindow = 2 * time.Hour
)

type ChatRepository interface {
	Create(ctx context.Context, m domain.ChatMessage) (domain.ChatMessage, error)
	ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]domain.ChatMessage, error)
}

type ChatService struct {
	repo      ChatRepository
	eventRepo EventRepository
	loc       *time.Location
	now       func() time.Time
}

func NewChatService(repo ChatRepository, eventRepo EventRepository) *ChatService {
	return &ChatService{
		repo:      repo,
		eventRepo: eventRepo,
		loc:       time.Local,
		now:       time.Now,
	}
}

// Messages pages through the event chat, oldest first.
func (s *ChatService) Messages(ctx context.Context, eventID string, p *domain.Principal, limit, offset int) ([]domain.ChatMessage, error) {
	if !p.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	if limit <= 0 {
		limit = DefaultChatPageSize
	}
	limit = min(limit, MaxChatPageSize)
	offset = max(offset, 0)

	messages, err := s.repo.ListByEvent(ctx, eventID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return messages, nil
}

// Post appends a text message. Only attendees and the creator may write.
func (s *ChatService) Post(ctx context.Context, eventID string, p *domain.Principal, text string) (domain.ChatMessage, error) {
	if !p.IsAuthenticated() {
		return domain.ChatMessage{}, ErrUnauthorized
	}

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n == 0 || n > MaxChatMessageLength {
		return domain.ChatMessage{}, ErrInvalidChatMessage
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	if event.CreatorID != p.UserID && !event.HasAttendee(p.UserID) {
		return domain.ChatMessage{}, ErrForbidden
	}

	created, err := s.repo.Create(ctx, domain.ChatMessage{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    p.UserID,
		UserName:  p.DisplayName(),
		Message:   text,
		Type:      domain.ChatMessageText,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Status reports whether the chat is live: from the event start until two hours later.
func (s *ChatService) Status(ctx context.Context, eventID string) (domain.ChatStatus, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return domain.ChatStatus{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	start, err := event.StartsAt(s.loc)
	if err != nil {
		return domain.ChatStatus{}, fmt.Errorf("event.StartsAt -> %w", err)
	}
	end := start.Add(chatWindow)
	now := s.now().In(s.loc)

	return domain.ChatStatus{
		EventID:        eventID,
		IsActive:       !now.Before(start) && !now.After(end),
		EventStartTime: start,
		EventEndTime:   end,
		CurrentTime:    now,
	}, nil
}
