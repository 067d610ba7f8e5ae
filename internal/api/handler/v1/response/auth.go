package response

import "github.com/campusconnect/campus-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
