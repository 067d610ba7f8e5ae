package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campus-api/internal/domain"
)

func newChatFixture(now time.Time) (*ChatService, *fakeChat) {
	event := testEvent("e1", "creator", nil)
	event.Attendees = []string{"u1"}

	chat := &fakeChat{}
	svc := NewChatService(chat, newFakeEvents(event))
	svc.loc = time.UTC
	svc.now = func() time.Time { return now }

	return svc, chat
}

func TestChatService_Post(t *testing.T) {
	ctx := context.Background()
	svc, chat := newChatFixture(fixedNow)

	msg, err := svc.Post(ctx, "e1", principalOf("u1"), "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Message)
	assert.Equal(t, domain.ChatMessageText, msg.Type)
	assert.Equal(t, "u1@campus.edu", msg.UserName)
	assert.Equal(t, fixedNow, msg.Timestamp)

	_, err = svc.Post(ctx, "e1", principalOf("creator"), "welcome")
	require.NoError(t, err)
	assert.Len(t, chat.messages, 2)
}

func TestChatService_Post_Rejects(t *testing.T) {
	ctx := context.Background()
	svc, chat := newChatFixture(fixedNow)

	_, err := svc.Post(ctx, "e1", nil, "hi")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Post(ctx, "e1", principalOf("u1"), "   ")
	assert.ErrorIs(t, err, ErrInvalidChatMessage)

	_, err = svc.Post(ctx, "e1", principalOf("u1"), strings.Repeat("x", MaxChatMessageLength+1))
	assert.ErrorIs(t, err, ErrInvalidChatMessage)

	_, err = svc.Post(ctx, "e1", principalOf("stranger"), "hi")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Post(ctx, "nope", principalOf("u1"), "hi")
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.Empty(t, chat.messages)
}

func TestChatService_Messages_Paging(t *testing.T) {
	ctx := context.Background()
	svc, chat := newChatFixture(fixedNow)

	_, err := svc.Messages(ctx, "e1", principalOf("anyone"), 0, -3)
	require.NoError(t, err)
	assert.Equal(t, DefaultChatPageSize, chat.limit)
	assert.Equal(t, 0, chat.offset)

	_, err = svc.Messages(ctx, "e1", principalOf("anyone"), 10_000, 20)
	require.NoError(t, err)
	assert.Equal(t, MaxChatPageSize, chat.limit)
	assert.Equal(t, 20, chat.offset)

	_, err = svc.Messages(ctx, "nope", principalOf("anyone"), 10, 0)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.Messages(ctx, "e1", nil, 10, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestChatService_Status(t *testing.T) {
	start := time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		now    time.Time
		active bool
	}{
		{name: "before start", now: start.Add(-time.Minute), active: false},
		{name: "at start", now: start, active: true},
		{name: "during", now: start.Add(90 * time.Minute), active: true},
		{name: "at end", now: start.Add(2 * time.Hour), active: true},
		{name: "after end", now: start.Add(2*time.Hour + time.Second), active: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newChatFixture(tt.now)

			status, err := svc.Status(context.Background(), "e1")
			require.NoError(t, err)
			assert.Equal(t, tt.active, status.IsActive)
			assert.Equal(t, start, status.EventStartTime)
			assert.Equal(t, start.Add(2*time.Hour), status.EventEndTime)
		})
	}
}
