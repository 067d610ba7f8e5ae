package domain

import (
	"slices"
	"time"
)

type EventType string

const (
	EventTypeAcademic EventType = "academic"
	EventTypeSocial   EventType = "social"
	EventTypeSports   EventType = "sports"
	EventTypeCultural EventType = "cultural"
	EventTypeOther    EventType = "other"
)

var EventTypes = []EventType{EventTypeAcademic, EventTypeSocial, EventTypeSports, EventTypeCultural, EventTypeOther}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CustomField struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     string   `json:"type"` // "text", "email", "number", "select" or "textarea"
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type Event struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	Location     string        `json:"location"`
	Coordinates  *Coordinates  `json:"coordinates,omitempty"`
	Type         EventType     `json:"type"`
	IsPrivate    bool          `json:"isPrivate"`
	AccessCode   *string       `json:"accessCode,omitempty"`
	Capacity     *int          `json:"capacity"`
	CreatorID    string        `json:"creatorId"`
	CreatorName  string        `json:"creatorName"`
	IsOfficial   bool          `json:"isOfficial"`
	Attendees    []string      `json:"attendees"`
	CustomFields []CustomField `json:"customFields,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// HasCapacity reports whether the event limits its attendee count.
func (e Event) HasCapacity() bool {
	return e.Capacity != nil
}

func (e Event) IsFull(current int) bool {
	return e.Capacity != nil && current >= *e.Capacity
}

func (e Event) HasAttendee(userID string) bool {
	return slices.Contains(e.Attendees, userID)
}

// StartsAt combines the calendar date and local clock time in loc.
func (e Event) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, e.Date+" "+e.Time, loc)
}

// EventPatch carries the mutable fields of an event; nil means "leave unchanged".
type EventPatch struct {
	Title        *string
	Description  *string
	Date         *string
	Time         *string
	Location     *string
	Coordinates  *Coordinates
	Type         *EventType
	IsPrivate    *bool
	Capacity     *int
	CustomFields []CustomField
}

type RegistrationStatus struct {
	IsRegistered     bool  `json:"isRegistered"`
	CurrentAttendees *int  `json:"currentAttendees,omitempty"`
	MaxAttendees     *int  `json:"maxAttendees,omitempty"`
	IsFull           *bool `json:"isFull,omitempty"`
}

// EventDraft is what a caller supplies to create an event.
type EventDraft struct {
	Title        string
	Description  string
	Date         string
	Time         string
	Location     string
	Coordinates  *Coordinates
	Type         EventType
	IsPrivate    bool
	Capacity     *int
	IsOfficial   bool
	CustomFields []CustomField
}
