package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/campusconnect/campus-api/internal/domain"
	"github.com/campusconnect/campus-api/internal/mailer"
	"github.com/campusconnect/campus-api/internal/repository"
)

var errStoreDown = errors.New("store unavailable")

type fakeEvents struct {
	mu     sync.Mutex
	events map[string]domain.Event
	err    error
}

func newFakeEvents(events ...domain.Event) *fakeEvents {
	f := &fakeEvents{events: map[string]domain.Event{}}
	for _, e := range events {
		if e.Attendees == nil {
			e.Attendees = []string{}
		}
		f.events[e.ID] = e
	}

	return f
}

func (f *fakeEvents) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return domain.Event{}, f.err
	}
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return domain.Event{}, f.err
	}
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, fmt.Errorf("fake -> %w", repository.ErrEventNotFound)
	}
	event.Attendees = slices.Clone(event.Attendees)

	return event, nil
}

func (f *fakeEvents) List(_ context.Context) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	events := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })

	return events, nil
}

func (f *fakeEvents) ListByCreator(_ context.Context, creatorID string) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var events []domain.Event
	for _, e := range f.events {
		if e.CreatorID == creatorID {
			events = append(events, e)
		}
	}

	return events, nil
}

func (f *fakeEvents) Update(_ context.Context, id string, mutate func(event *domain.Event) error) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, fmt.Errorf("fake -> %w", repository.ErrEventNotFound)
	}
	if err := mutate(&event); err != nil {
		return domain.Event{}, err
	}
	f.events[id] = event

	return event, nil
}

func (f *fakeEvents) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[id]; !ok {
		return fmt.Errorf("fake -> %w", repository.ErrEventNotFound)
	}
	delete(f.events, id)

	return nil
}

// fakeRegistrations serialises registrations under one mutex and hands check the same
// inputs the transactional store does.
type fakeRegistrations struct {
	events *fakeEvents
	regs   []domain.Registration
}

func (f *fakeRegistrations) Register(_ context.Context, reg domain.Registration, check domain.RegistrationCheck) (domain.Registration, error) {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	event, ok := f.events.events[reg.EventID]
	if !ok {
		return domain.Registration{}, repository.ErrEventNotFound
	}

	current, registered := 0, false
	for _, r := range f.regs {
		if r.EventID != reg.EventID {
			continue
		}
		registered = registered || r.UserID == reg.UserID
		current++
	}
	if err := check(event, current, registered); err != nil {
		return domain.Registration{}, err
	}

	f.regs = append(f.regs, reg)
	event.Attendees = append(slices.Clone(event.Attendees), reg.UserID)
	event.UpdatedAt = reg.RegisteredAt
	f.events.events[reg.EventID] = event

	return reg, nil
}

func (f *fakeRegistrations) Unregister(_ context.Context, eventID, userID string, now time.Time) error {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	event, ok := f.events.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}

	before := len(f.regs)
	f.regs = slices.DeleteFunc(f.regs, func(r domain.Registration) bool {
		return r.EventID == eventID && r.UserID == userID
	})
	if len(f.regs) == before {
		return repository.ErrNotRegistered
	}

	event.Attendees = slices.DeleteFunc(slices.Clone(event.Attendees), func(id string) bool { return id == userID })
	event.UpdatedAt = now
	f.events.events[eventID] = event

	return nil
}

func (f *fakeRegistrations) Exists(_ context.Context, eventID, userID string) (bool, error) {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	return slices.ContainsFunc(f.regs, func(r domain.Registration) bool {
		return r.EventID == eventID && r.UserID == userID
	}), nil
}

func (f *fakeRegistrations) CountByEvent(_ context.Context, eventID string) (int, error) {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	count := 0
	for _, r := range f.regs {
		if r.EventID == eventID {
			count++
		}
	}

	return count, nil
}

func (f *fakeRegistrations) ListByEvent(_ context.Context, eventID string) ([]domain.Registration, error) {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	var regs []domain.Registration
	for _, r := range f.regs {
		if r.EventID == eventID {
			regs = append(regs, r)
		}
	}

	return regs, nil
}

func (f *fakeRegistrations) ListByUser(_ context.Context, userID string) ([]domain.Registration, error) {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()

	var regs []domain.Registration
	for _, r := range f.regs {
		if r.UserID == userID {
			regs = append(regs, r)
		}
	}

	return regs, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
	err   error
}

func newFakeUsers(users ...domain.User) *fakeUsers {
	f := &fakeUsers{users: map[string]domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}

	return f
}

func (f *fakeUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.User{}, fmt.Errorf("fake -> %w", repository.ErrUserEmailExists)
		}
	}
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return domain.User{}, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("fake -> %w", repository.ErrUserNotFound)
	}

	return user, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, fmt.Errorf("fake -> %w", repository.ErrUserNotFound)
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Password = hash
	f.users[id] = user

	return nil
}

type fakeChat struct {
	messages []domain.ChatMessage
	limit    int
	offset   int
}

func (f *fakeChat) Create(_ context.Context, m domain.ChatMessage) (domain.ChatMessage, error) {
	f.messages = append(f.messages, m)

	return m, nil
}

func (f *fakeChat) ListByEvent(_ context.Context, eventID string, limit, offset int) ([]domain.ChatMessage, error) {
	f.limit, f.offset = limit, offset

	var messages []domain.ChatMessage
	for _, m := range f.messages {
		if m.EventID == eventID {
			messages = append(messages, m)
		}
	}

	return messages, nil
}

type fakePhotos struct {
	photos map[string]domain.Photo
}

func (f *fakePhotos) Create(_ context.Context, photo domain.Photo) (domain.Photo, error) {
	f.photos[photo.ID] = photo

	return photo, nil
}

func (f *fakePhotos) GetByID(_ context.Context, id string) (domain.Photo, error) {
	photo, ok := f.photos[id]
	if !ok {
		return domain.Photo{}, fmt.Errorf("fake -> %w", repository.ErrPhotoNotFound)
	}

	return photo, nil
}

func (f *fakePhotos) ListByEvent(_ context.Context, eventID string) ([]domain.Photo, error) {
	photos := []domain.Photo{}
	for _, p := range f.photos {
		if p.EventID == eventID {
			photos = append(photos, p)
		}
	}

	return photos, nil
}

func (f *fakePhotos) Delete(_ context.Context, id string) error {
	delete(f.photos, id)

	return nil
}

type recordingSender struct {
	sent []mailer.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)

	return nil
}

func principalOf(id string, roles ...string) *domain.Principal {
	return &domain.Principal{IdentityProvider: "aad", UserID: id, UserDetails: id + "@campus.edu", UserRoles: roles}
}

func intPtr(i int) *int {
	return &i
}

func testEvent(id, creator string, capacity *int) domain.Event {
	return domain.Event{
		ID:          id,
		Title:       "Robotics night",
		Description: "Build and break things",
		Date:        "2026-05-01",
		Time:        "18:30",
		Location:    "Hall B",
		Type:        domain.EventTypeAcademic,
		Capacity:    capacity,
		CreatorID:   creator,
		CreatorName: creator,
		Attendees:   []string{},
		CreatedAt:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}
