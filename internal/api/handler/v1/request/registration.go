package request

type RegisterRequest struct {
	RegistrationData map[string]any `json:"registrationData"`
}
