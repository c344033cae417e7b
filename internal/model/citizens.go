package model

import (
	"time"

	"github.com/google/uuid"
)

// Citizen is a resident subscribed to city SMS notifications.
type Citizen struct {
	ID           uuid.UUID `json:"id"`
	PhoneNumber  string    `json:"phone_number"`
	Subscribed   bool      `json:"subscribed"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

type AddCitizenRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

type ListCitizensParams struct {
	Subscribed  *bool
	PhoneNumber string
	Cursor      string
	Limit       int
}

type CitizenListPage struct {
	Citizens   []Citizen  `json:"citizens"`
	Pagination Pagination `json:"pagination"`
}
