package model

import "time"

// Employee is a system user. RoleID binds the employee to an approval role,
// which also carries the admin permission codes embedded into the JWT.
type Employee struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
}
