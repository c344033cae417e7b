package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types published to the report event topic.
const (
	EventNewReport    = "new_report"
	EventStatusUpdate = "status_update"
)

// ReportEvent is the structured payload published for admin alerting.
type ReportEvent struct {
	Type         string    `json:"type"`
	ReportID     uuid.UUID `json:"report_id"`
	IssueType    string    `json:"issue_type"`
	IssueAddress string    `json:"issue_address"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	Timestamp    time.Time `json:"timestamp"`
}

type NotifyAdminsRequest struct {
	ReportID         string `json:"report_id" validate:"required,uuid"`
	NotificationType string `json:"notification_type" validate:"required,oneof=new_report status_update"`
	SenderEmail      string `json:"sender_email,omitempty" validate:"omitempty,email"`
}
