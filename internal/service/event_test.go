package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campus-api/internal/domain"
)

var fixedNow = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

func newEventFixture(defaultCapacity int, events ...domain.Event) (*EventService, *fakeEvents) {
	repo := newFakeEvents(events...)
	svc := NewEventService(repo, defaultCapacity)
	svc.now = func() time.Time { return fixedNow }

	return svc, repo
}

func validDraft() domain.EventDraft {
	return domain.EventDraft{
		Title:       "Hack night",
		Description: "Bring a laptop",
		Date:        "2026-05-10",
		Time:        "19:00",
		Location:    "Library",
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	svc, repo := newEventFixture(50)

	event, err := svc.Create(ctx, principalOf("u1", domain.RoleStudent), validDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, domain.EventTypeOther, event.Type)
	assert.False(t, event.IsPrivate)
	assert.Nil(t, event.AccessCode)
	require.NotNil(t, event.Capacity)
	assert.Equal(t, 50, *event.Capacity)
	assert.Equal(t, "u1", event.CreatorID)
	assert.Equal(t, "u1@campus.edu", event.CreatorName)
	assert.False(t, event.IsOfficial)
	assert.Equal(t, []string{}, event.Attendees)
	assert.Equal(t, fixedNow, event.CreatedAt)
	assert.Equal(t, fixedNow, event.UpdatedAt)

	stored, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Title, stored.Title)
}

func TestEventService_Create_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("private events get an access code", func(t *testing.T) {
		svc, _ := newEventFixture(50)
		draft := validDraft()
		draft.IsPrivate = true

		event, err := svc.Create(ctx, principalOf("u1"), draft)
		require.NoError(t, err)
		require.NotNil(t, event.AccessCode)
		assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), *event.AccessCode)
	})

	t.Run("official only for faculty", func(t *testing.T) {
		svc, _ := newEventFixture(50)
		draft := validDraft()
		draft.IsOfficial = true

		event, err := svc.Create(ctx, principalOf("prof", domain.RoleFaculty), draft)
		require.NoError(t, err)
		assert.True(t, event.IsOfficial)

		event, err = svc.Create(ctx, principalOf("stud", domain.RoleStudent), draft)
		require.NoError(t, err)
		assert.False(t, event.IsOfficial)
	})

	t.Run("explicit capacity wins", func(t *testing.T) {
		svc, _ := newEventFixture(50)
		draft := validDraft()
		draft.Capacity = intPtr(3)

		event, err := svc.Create(ctx, principalOf("u1"), draft)
		require.NoError(t, err)
		assert.Equal(t, 3, *event.Capacity)
	})

	t.Run("zero default means unlimited", func(t *testing.T) {
		svc, _ := newEventFixture(0)

		event, err := svc.Create(ctx, principalOf("u1"), validDraft())
		require.NoError(t, err)
		assert.Nil(t, event.Capacity)
	})
}

func TestEventService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *domain.EventDraft)
		want   error
	}{
		{name: "no title", mutate: func(d *domain.EventDraft) { d.Title = " " }, want: ErrMissingFields},
		{name: "no location", mutate: func(d *domain.EventDraft) { d.Location = "" }, want: ErrMissingFields},
		{name: "bad date", mutate: func(d *domain.EventDraft) { d.Date = "10/05/2026" }, want: ErrInvalidEvent},
		{name: "bad time", mutate: func(d *domain.EventDraft) { d.Time = "7pm" }, want: ErrInvalidEvent},
		{name: "bad type", mutate: func(d *domain.EventDraft) { d.Type = "party" }, want: ErrInvalidEvent},
		{name: "zero capacity", mutate: func(d *domain.EventDraft) { d.Capacity = intPtr(0) }, want: ErrInvalidEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newEventFixture(50)
			draft := validDraft()
			tt.mutate(&draft)

			_, err := svc.Create(context.Background(), principalOf("u1"), draft)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, repo.events)
		})
	}

	svc, _ := newEventFixture(50)
	_, err := svc.Create(context.Background(), nil, validDraft())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestEventService_List(t *testing.T) {
	older := testEvent("old", "c", nil)
	newer := testEvent("new", "c", nil)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	svc, repo := newEventFixture(50, older, newer)

	events, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "new", events[0].ID)

	repo.err = errStoreDown
	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()
	base := testEvent("e1", "creator", intPtr(10))
	base.Attendees = []string{"a", "b", "c"}

	t.Run("creator merges fields", func(t *testing.T) {
		svc, _ := newEventFixture(50, base)
		title := "Renamed"
		private := true

		event, err := svc.Update(ctx, "e1", principalOf("creator"), domain.EventPatch{Title: &title, IsPrivate: &private})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", event.Title)
		assert.Equal(t, base.Description, event.Description)
		assert.True(t, event.IsPrivate)
		assert.NotNil(t, event.AccessCode)
		assert.Equal(t, base.Attendees, event.Attendees)
		assert.Equal(t, base.CreatedAt, event.CreatedAt)
		assert.Equal(t, fixedNow, event.UpdatedAt)
	})

	t.Run("admin may edit", func(t *testing.T) {
		svc, _ := newEventFixture(50, base)
		location := "Gym"

		event, err := svc.Update(ctx, "e1", principalOf("root", domain.RoleAdmin), domain.EventPatch{Location: &location})
		require.NoError(t, err)
		assert.Equal(t, "Gym", event.Location)
		assert.Equal(t, "creator", event.CreatorID)
	})

	t.Run("others are forbidden", func(t *testing.T) {
		svc, repo := newEventFixture(50, base)
		title := "Hijacked"

		_, err := svc.Update(ctx, "e1", principalOf("u9"), domain.EventPatch{Title: &title})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, base.Title, repo.events["e1"].Title)
	})

	t.Run("capacity below attendees", func(t *testing.T) {
		svc, _ := newEventFixture(50, base)

		_, err := svc.Update(ctx, "e1", principalOf("creator"), domain.EventPatch{Capacity: intPtr(2)})
		assert.ErrorIs(t, err, ErrCapacityBelowAttendees)
	})

	t.Run("invalid date", func(t *testing.T) {
		svc, _ := newEventFixture(50, base)
		date := "tomorrow"

		_, err := svc.Update(ctx, "e1", principalOf("creator"), domain.EventPatch{Date: &date})
		assert.ErrorIs(t, err, ErrInvalidEvent)
	})

	t.Run("missing", func(t *testing.T) {
		svc, _ := newEventFixture(50)

		_, err := svc.Update(ctx, "e1", principalOf("creator"), domain.EventPatch{})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo := newEventFixture(50, testEvent("e1", "creator", nil), testEvent("e2", "creator", nil))

	assert.ErrorIs(t, svc.Delete(ctx, "e1", nil), ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, "e1", principalOf("u9")), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, "nope", principalOf("creator")), ErrEventNotFound)

	require.NoError(t, svc.Delete(ctx, "e1", principalOf("creator")))
	require.NoError(t, svc.Delete(ctx, "e2", principalOf("root", domain.RoleAdmin)))
	assert.Empty(t, repo.events)
}

func TestNewAccessCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Regexp(t, `^[A-Z0-9]{6}$`, newAccessCode())
	}
}
