package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/campusconnect/campus-api/internal/domain"
)

var (
	customFieldTypes = []interface{}{"text", "email", "number", "select", "textarea"}
	eventTypes       = []interface{}{
		string(domain.EventTypeAcademic),
		string(domain.EventTypeSocial),
		string(domain.EventTypeSports),
		string(domain.EventTypeCultural),
		string(domain.EventTypeOther),
	}
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&c.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

type CustomField struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

func (f CustomField) Validate() error {
	var optionRules []validation.Rule
	if f.Type == "select" {
		optionRules = append(optionRules, validation.Required)
	}

	return validation.ValidateStruct(
		&f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.Label, validation.Required),
		validation.Field(&f.Type, validation.Required, validation.In(customFieldTypes...)),
		validation.Field(&f.Options, optionRules...),
	)
}

type CreateEventRequest struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Date         string        `json:"date" format:"YYYY-MM-DD"`
	Time         string        `json:"time" format:"HH:MM"`
	Location     string        `json:"location"`
	Coordinates  *Coordinates  `json:"coordinates,omitempty"`
	Type         string        `json:"type"`
	IsPrivate    bool          `json:"isPrivate"`
	Capacity     *int          `json:"capacity"`
	IsOfficial   bool          `json:"isOfficial"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// MissingFields names the required fields the request left blank.
func (req *CreateEventRequest) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", req.Title},
		{"description", req.Description},
		{"date", req.Date},
		{"time", req.Time},
		{"location", req.Location},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	return missing
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 5000)),
		validation.Field(&req.Date, validation.Required, validation.Date(domain.DateLayout)),
		validation.Field(&req.Time, validation.Required, validation.Date(domain.TimeLayout)),
		validation.Field(&req.Location, validation.Required, validation.Length(1, 300)),
		validation.Field(&req.Coordinates),
		validation.Field(&req.Type, validation.In(eventTypes...)),
		validation.Field(&req.Capacity, validation.Min(1)),
		validation.Field(&req.CustomFields),
	)
}

func (req *CreateEventRequest) ToDraft() domain.EventDraft {
	return domain.EventDraft{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Location:     req.Location,
		Coordinates:  toDomainCoordinates(req.Coordinates),
		Type:         domain.EventType(req.Type),
		IsPrivate:    req.IsPrivate,
		Capacity:     req.Capacity,
		IsOfficial:   req.IsOfficial,
		CustomFields: toDomainCustomFields(req.CustomFields),
	}
}

type UpdateEventRequest struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	Date         *string       `json:"date" format:"YYYY-MM-DD"`
	Time         *string       `json:"time" format:"HH:MM"`
	Location     *string       `json:"location"`
	Coordinates  *Coordinates  `json:"coordinates"`
	Type         *string       `json:"type"`
	IsPrivate    *bool         `json:"isPrivate"`
	Capacity     *int          `json:"capacity"`
	CustomFields []CustomField `json:"customFields"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.NilOrNotEmpty, validation.Length(1, 5000)),
		validation.Field(&req.Date, validation.NilOrNotEmpty, validation.Date(domain.DateLayout)),
		validation.Field(&req.Time, validation.NilOrNotEmpty, validation.Date(domain.TimeLayout)),
		validation.Field(&req.Location, validation.NilOrNotEmpty, validation.Length(1, 300)),
		validation.Field(&req.Coordinates),
		validation.Field(&req.Type, validation.NilOrNotEmpty, validation.In(eventTypes...)),
		validation.Field(&req.Capacity, validation.Min(1)),
		validation.Field(&req.CustomFields),
	)
}

func (req *UpdateEventRequest) ToPatch() domain.EventPatch {
	patch := domain.EventPatch{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Location:     req.Location,
		Coordinates:  toDomainCoordinates(req.Coordinates),
		IsPrivate:    req.IsPrivate,
		Capacity:     req.Capacity,
		CustomFields: toDomainCustomFields(req.CustomFields),
	}
	if req.Type != nil {
		eventType := domain.EventType(*req.Type)
		patch.Type = &eventType
	}

	return patch
}

func toDomainCoordinates(c *Coordinates) *domain.Coordinates {
	if c == nil {
		return nil
	}

	return &domain.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

func toDomainCustomFields(fields []CustomField) []domain.CustomField {
	if fields == nil {
		return nil
	}

	out := make([]domain.CustomField, len(fields))
	for i, f := range fields {
		out[i] = domain.CustomField(f)
	}

	return out
}
