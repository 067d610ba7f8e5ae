package dao

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newEvent(capacity *int) Event {
	now := time.Now().UTC().Truncate(time.Microsecond)

	return Event{
		ID:          uuid.NewString(),
		Title:       "Robotics night",
		Description: "Build and race small robots",
		Date:        datatypes.Date(time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)),
		Time:        datatypes.NewTime(18, 30, 0, 0),
		Location:    "Hall B",
		Type:        "academic",
		Capacity:    capacity,
		CreatorID:   "creator-" + uuid.NewString(),
		CreatorName: "Dr. Lin",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newRegistration(eventID, userID string) Registration {
	return Registration{
		ID:               uuid.NewString(),
		EventID:          eventID,
		UserID:           userID,
		UserName:         "User " + userID,
		RegistrationData: datatypes.JSONMap{},
		RegisteredAt:     time.Now().UTC(),
	}
}

func capacityOf(n int) *int {
	return &n
}

var errFull = errors.New("full")

func capacityCheck(event Event, current int, registered bool) error {
	if registered {
		return ErrAlreadyRegistered
	}
	if event.Capacity != nil && current >= *event.Capacity {
		return errFull
	}

	return nil
}

func allowAll(Event, int, bool) error { return nil }

func TestEventDAO(t *testing.T) {
	h := requireDB(t)
	ctx := context.Background()
	events := NewEventDAO(h)

	event := newEvent(capacityOf(10))
	event.CustomFields = datatypes.JSONSlice[CustomField]{{ID: "shirt", Label: "Shirt size", Type: "select", Options: []string{"S", "M"}}}
	_, err := events.Insert(ctx, event)
	require.NoError(t, err)

	t.Run("find by id", func(t *testing.T) {
		got, err := events.FindByID(ctx, event.ID)
		require.NoError(t, err)

		assert.Equal(t, event.Title, got.Title)
		assert.Equal(t, event.Time, got.Time)
		assert.Empty(t, got.Attendees)
		require.Len(t, got.CustomFields, 1)
		assert.Equal(t, []string{"S", "M"}, got.CustomFields[0].Options)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := events.FindByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("newest first", func(t *testing.T) {
		newer := newEvent(nil)
		newer.CreatedAt = event.CreatedAt.Add(time.Minute)
		_, err := events.Insert(ctx, newer)
		require.NoError(t, err)

		all, err := events.FindAll(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(all), 2)

		var newerIdx, olderIdx int
		for i, e := range all {
			switch e.ID {
			case newer.ID:
				newerIdx = i
			case event.ID:
				olderIdx = i
			}
		}
		assert.Less(t, newerIdx, olderIdx)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := events.Update(ctx, event.ID, func(e *Event) error {
			e.Title = "Robotics night II"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Robotics night II", updated.Title)

		got, err := events.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, "Robotics night II", got.Title)
	})

	t.Run("mutate error aborts the update", func(t *testing.T) {
		abort := errors.New("abort")
		_, err := events.Update(ctx, event.ID, func(e *Event) error {
			e.Title = "never stored"
			return abort
		})
		require.ErrorIs(t, err, abort)

		got, err := events.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "never stored", got.Title)
	})

	t.Run("update unknown event", func(t *testing.T) {
		_, err := events.Update(ctx, uuid.NewString(), func(*Event) error { return nil })
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("by creator", func(t *testing.T) {
		mine, err := events.FindByCreator(ctx, event.CreatorID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, event.ID, mine[0].ID)
	})
}

func TestEventDAO_DeleteCascades(t *testing.T) {
	h := requireDB(t)
	ctx := context.Background()
	events, regs, chat, photos := NewEventDAO(h), NewRegistrationDAO(h), NewChatDAO(h), NewPhotoDAO(h)

	event, err := events.Insert(ctx, newEvent(nil))
	require.NoError(t, err)
	_, err = regs.TryRegister(ctx, newRegistration(event.ID, "u1"), capacityCheck)
	require.NoError(t, err)
	_, err = chat.Insert(ctx, ChatMessage{ID: uuid.NewString(), EventID: event.ID, UserID: "u1", UserName: "U1", Message: "hi", Type: "text", Timestamp: time.Now().UTC()})
	require.NoError(t, err)
	_, err = photos.Insert(ctx, Photo{ID: uuid.NewString(), EventID: event.ID, UserID: "u1", UserName: "U1", FileName: "a.jpg", FileURL: "https://cdn/a.jpg", UploadedAt: time.Now().UTC()})
	require.NoError(t, err)

	require.NoError(t, events.Delete(ctx, event.ID))

	_, err = events.FindByID(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	count, err := regs.CountByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	messages, err := chat.FindByEvent(ctx, event.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
	gallery, err := photos.FindByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, gallery)

	assert.ErrorIs(t, events.Delete(ctx, event.ID), ErrEventNotFound)
}

func TestRegistrationDAO(t *testing.T) {
	h := requireDB(t)
	ctx := context.Background()
	events, regs := NewEventDAO(h), NewRegistrationDAO(h)

	event, err := events.Insert(ctx, newEvent(capacityOf(2)))
	require.NoError(t, err)

	_, err = regs.TryRegister(ctx, newRegistration(event.ID, "u1"), capacityCheck)
	require.NoError(t, err)

	t.Run("attendee list follows registrations", func(t *testing.T) {
		got, err := events.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, datatypes.JSONSlice[string]{"u1"}, got.Attendees)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := regs.TryRegister(ctx, newRegistration(event.ID, "u1"), capacityCheck)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("full", func(t *testing.T) {
		_, err := regs.TryRegister(ctx, newRegistration(event.ID, "u2"), capacityCheck)
		require.NoError(t, err)

		_, err = regs.TryRegister(ctx, newRegistration(event.ID, "u3"), capacityCheck)
		assert.ErrorIs(t, err, errFull)
	})

	t.Run("unique index backs up a permissive check", func(t *testing.T) {
		_, err := regs.TryRegister(ctx, newRegistration(event.ID, "u1"), allowAll)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("check sees the locked event", func(t *testing.T) {
		var (
			seen       Event
			seenCount  int
			registered bool
		)
		refuse := errors.New("closed")
		_, err := regs.TryRegister(ctx, newRegistration(event.ID, "u9"), func(e Event, current int, r bool) error {
			seen, seenCount, registered = e, current, r
			return refuse
		})
		assert.ErrorIs(t, err, refuse)
		assert.Equal(t, event.ID, seen.ID)
		assert.Equal(t, 2, seenCount)
		assert.False(t, registered)

		exists, err := regs.Exists(ctx, event.ID, "u9")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := regs.TryRegister(ctx, newRegistration(uuid.NewString(), "u1"), capacityCheck)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("queries", func(t *testing.T) {
		exists, err := regs.Exists(ctx, event.ID, "u2")
		require.NoError(t, err)
		assert.True(t, exists)

		byEvent, err := regs.FindByEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, byEvent, 2)
		assert.Equal(t, "u1", byEvent[0].UserID)

		byUser, err := regs.FindByUser(ctx, "u2")
		require.NoError(t, err)
		assert.NotEmpty(t, byUser)
	})

	t.Run("unregister", func(t *testing.T) {
		require.NoError(t, regs.TryUnregister(ctx, event.ID, "u1", time.Now().UTC()))
		assert.ErrorIs(t, regs.TryUnregister(ctx, event.ID, "u1", time.Now().UTC()), ErrNotRegistered)

		got, err := events.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, datatypes.JSONSlice[string]{"u2"}, got.Attendees)

		// The freed seat can be taken again.
		_, err = regs.TryRegister(ctx, newRegistration(event.ID, "u3"), capacityCheck)
		assert.NoError(t, err)
	})
}

func TestRegistrationDAO_ConcurrentRegistrationsRespectCapacity(t *testing.T) {
	h := requireDB(t)
	ctx := context.Background()
	events, regs := NewEventDAO(h), NewRegistrationDAO(h)

	const capacity, callers = 5, 20
	event, err := events.Insert(ctx, newEvent(capacityOf(capacity)))
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		full    int
		unknown []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every third caller retries the same user to race the duplicate check too.
			userID := uuid.NewString()
			if i%3 == 0 {
				userID = "same-user"
			}
			_, err := regs.TryRegister(ctx, newRegistration(event.ID, userID), capacityCheck)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, errFull), errors.Is(err, ErrAlreadyRegistered):
				full++
			default:
				unknown = append(unknown, err)
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, unknown)
	assert.Equal(t, capacity, ok)
	assert.Equal(t, callers-capacity, full)

	count, err := regs.CountByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, count)

	got, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, got.Attendees, capacity)
}

func TestUserDAO(t *testing.T) {
	h := requireDB(t)
	ctx := context.Background()
	users := NewUserDAO(h)

	now := time.Now().UTC()
	user := User{
		ID:        uuid.NewString(),
		Email:     uuid.NewString() + "@campus.edu",
		Password:  "hash",
		Role:      "student",
		Name:      "Ada",
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := users.Insert(ctx, user)
	require.NoError(t, err)

	dup := user
	dup.ID = uuid.NewString()
	_, err = users.Insert(ctx, dup)
	assert.ErrorIs(t, err, ErrUserEmailExists)

	got, err := users.FindByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, users.UpdatePassword(ctx, user.ID, "new-hash"))
	got, err = users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)

	assert.ErrorIs(t, users.UpdatePassword(ctx, uuid.NewString(), "x"), ErrUserNotFound)
	_, err = users.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChatDAO_Pages(t *testing.T) {
	h := requireDB(t)
	ctx := context.Background()
	chat := NewChatDAO(h)

	eventID := uuid.NewString()
	start := time.Date(2026, 11, 3, 18, 30, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := chat.Insert(ctx, ChatMessage{
			ID:        uuid.NewString(),
			EventID:   eventID,
			UserID:    "u1",
			UserName:  "U1",
			Message:   string(rune('a' + i)),
			Type:      "text",
			Timestamp: start.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	page, err := chat.FindByEvent(ctx, eventID, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Message)
	assert.Equal(t, "c", page[1].Message)
}

func TestPhotoDAO(t *testing.T) {
	h := requireDB(t)
	ctx := context.Background()
	photos := NewPhotoDAO(h)

	width, mime := 800, "image/jpeg"
	photo := Photo{
		ID:         uuid.NewString(),
		EventID:    uuid.NewString(),
		UserID:     "u1",
		UserName:   "U1",
		FileName:   "a.jpg",
		FileURL:    "https://cdn/a.jpg",
		Width:      &width,
		MimeType:   &mime,
		UploadedAt: time.Now().UTC(),
	}
	_, err := photos.Insert(ctx, photo)
	require.NoError(t, err)

	got, err := photos.FindByID(ctx, photo.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Width)
	assert.Equal(t, 800, *got.Width)
	assert.Nil(t, got.Height)

	require.NoError(t, photos.Delete(ctx, photo.ID))
	require.NoError(t, photos.Delete(ctx, photo.ID))
	_, err = photos.FindByID(ctx, photo.ID)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}
