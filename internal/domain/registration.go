package domain

import "time"

type Registration struct {
	ID               string         `json:"id"`
	EventID          string         `json:"eventId"`
	UserID           string         `json:"userId"`
	UserName         string         `json:"userName"`
	UserEmail        string         `json:"userEmail"`
	RegistrationData map[string]any `json:"registrationData"`
	RegisteredAt     time.Time      `json:"registeredAt"`
}

// RegistrationCheck decides whether a registration may be written. It runs while the event is
// locked: current is the event's registration count and registered reports whether the user
// already holds one.
type RegistrationCheck func(event Event, current int, registered bool) error

// Attendee is the view of a registration exposed to an event's creator.
type Attendee struct {
	UserID           string         `json:"userId"`
	UserName         string         `json:"userName"`
	UserEmail        string         `json:"userEmail"`
	RegistrationData map[string]any `json:"registrationData"`
	RegisteredAt     time.Time      `json:"registeredAt"`
}

func (r Registration) Attendee() Attendee {
	return Attendee{
		UserID:           r.UserID,
		UserName:         r.UserName,
		UserEmail:        r.UserEmail,
		RegistrationData: r.RegistrationData,
		RegisteredAt:     r.RegisteredAt,
	}
}
