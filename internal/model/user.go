package model

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a city staff account. Admin accounts additionally receive
// report alert emails.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
