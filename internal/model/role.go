package model

import "time"

// Role identifies who may act at an approval stage. Reference data —
// routes and stages only hold the ID.
type Role struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleWithPermissions extends Role to include its admin permission codes.
type RoleWithPermissions struct {
	*Role
	Permissions []string `json:"permissions"`
}
