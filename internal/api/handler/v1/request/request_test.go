package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusconnect/campus-api/internal/domain"
)

func validCreateEvent() CreateEventRequest {
	return CreateEventRequest{
		Title:       "Hack night",
		Description: "Bring a laptop",
		Date:        "2026-05-10",
		Time:        "19:00",
		Location:    "Library",
	}
}

func TestCreateEventRequest_Validate(t *testing.T) {
	capacity := 0

	tests := []struct {
		name    string
		mutate  func(r *CreateEventRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *CreateEventRequest) {}},
		{name: "valid with extras", mutate: func(r *CreateEventRequest) {
			r.Type = "sports"
			r.Coordinates = &Coordinates{Latitude: 45.5, Longitude: -73.6}
			r.CustomFields = []CustomField{{ID: "shirt", Label: "Shirt size", Type: "select", Options: []string{"S", "M"}}}
		}},
		{name: "no title", mutate: func(r *CreateEventRequest) { r.Title = "" }, wantErr: true},
		{name: "bad date", mutate: func(r *CreateEventRequest) { r.Date = "10/05/2026" }, wantErr: true},
		{name: "bad time", mutate: func(r *CreateEventRequest) { r.Time = "25:00" }, wantErr: true},
		{name: "bad type", mutate: func(r *CreateEventRequest) { r.Type = "party" }, wantErr: true},
		{name: "zero capacity", mutate: func(r *CreateEventRequest) { r.Capacity = &capacity }, wantErr: true},
		{name: "bad latitude", mutate: func(r *CreateEventRequest) { r.Coordinates = &Coordinates{Latitude: 91} }, wantErr: true},
		{name: "select without options", mutate: func(r *CreateEventRequest) {
			r.CustomFields = []CustomField{{ID: "x", Label: "X", Type: "select"}}
		}, wantErr: true},
		{name: "unknown field type", mutate: func(r *CreateEventRequest) {
			r.CustomFields = []CustomField{{ID: "x", Label: "X", Type: "color"}}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateEvent()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateEventRequest_MissingFields(t *testing.T) {
	req := CreateEventRequest{Title: "T", Time: "10:00"}

	assert.Equal(t, []string{"description", "date", "location"}, req.MissingFields())
	assert.Empty(t, (&CreateEventRequest{Title: "a", Description: "b", Date: "c", Time: "d", Location: "e"}).MissingFields())
}

func TestCreateEventRequest_ToDraft(t *testing.T) {
	req := validCreateEvent()
	req.Type = "cultural"
	req.Coordinates = &Coordinates{Latitude: 1, Longitude: 2}

	draft := req.ToDraft()
	assert.Equal(t, domain.EventTypeCultural, draft.Type)
	assert.Equal(t, &domain.Coordinates{Latitude: 1, Longitude: 2}, draft.Coordinates)
	assert.Nil(t, draft.CustomFields)
}

func TestUpdateEventRequest_Validate(t *testing.T) {
	empty := ""
	date := "2026-13-01"
	title := "New title"

	assert.NoError(t, (&UpdateEventRequest{}).Validate())
	assert.NoError(t, (&UpdateEventRequest{Title: &title}).Validate())
	assert.Error(t, (&UpdateEventRequest{Title: &empty}).Validate())
	assert.Error(t, (&UpdateEventRequest{Date: &date}).Validate())
}

func TestChangePasswordRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		next    string
		confirm string
		wantErr error
	}{
		{name: "valid", next: "abcdef12", confirm: "abcdef12"},
		{name: "too short", next: "abc12", confirm: "abc12", wantErr: errInvalidPassword},
		{name: "no digit", next: "abcdefgh", confirm: "abcdefgh", wantErr: errInvalidPassword},
		{name: "no letter", next: "12345678", confirm: "12345678", wantErr: errInvalidPassword},
		{name: "mismatch", next: "abcdef12", confirm: "abcdef13", wantErr: errConfirmPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ChangePasswordRequest{CurrentPassword: "old", NewPassword: tt.next, ConfirmPassword: tt.confirm}

			err := req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCreateUserRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CreateUserRequest{Email: "a@campus.edu", Name: "A", Role: "student"}).Validate())
	assert.Error(t, (&CreateUserRequest{Email: "nope", Name: "A", Role: "student"}).Validate())
	assert.Error(t, (&CreateUserRequest{Email: "a@campus.edu", Name: "A", Role: "janitor"}).Validate())
}

func TestAddPhotoRequest_Validate(t *testing.T) {
	valid := AddPhotoRequest{FileName: "a.jpg", FileURL: "https://cdn.example/a.jpg"}
	assert.NoError(t, valid.Validate())

	noURL := valid
	noURL.FileURL = ""
	assert.Error(t, noURL.Validate())

	long := valid
	long.Caption = strings.Repeat("é", 501)
	assert.Error(t, long.Validate())
}

func TestPostChatMessageRequest_Validate(t *testing.T) {
	assert.NoError(t, (&PostChatMessageRequest{Message: "hi"}).Validate())
	assert.Error(t, (&PostChatMessageRequest{}).Validate())
	assert.Error(t, (&PostChatMessageRequest{Message: strings.Repeat("x", 1001)}).Validate())
}
