package domain

import "time"

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	StudentID  string    `json:"studentId,omitempty"`
	FacultyID  string    `json:"facultyId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Principal builds the identity a locally authenticated user carries in its token.
func (u User) Principal() Principal {
	return Principal{
		IdentityProvider: "local",
		UserID:           u.ID,
		UserDetails:      u.Email,
		UserRoles:        []string{u.Role},
	}
}
