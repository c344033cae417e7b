package model

import (
	"time"

	"github.com/google/uuid"
)

// Report statuses
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// Issue types
const (
	IssuePothole     = "pothole"
	IssueWaterBreak  = "water_break"
	IssueStreetlight = "streetlight"
	IssueTrash       = "trash"
	IssueGraffiti    = "graffiti"
	IssueOther       = "other"
)

// validStatusTransitions is the explicit legality table for status
// changes. Every transition is currently permitted, including
// resolved -> new (reopening); tightening the workflow means editing
// this table, nothing else.
var validStatusTransitions = map[string][]string{
	StatusNew:        {StatusNew, StatusInProgress, StatusResolved},
	StatusInProgress: {StatusNew, StatusInProgress, StatusResolved},
	StatusResolved:   {StatusNew, StatusInProgress, StatusResolved},
}

// IsValidStatusTransition reports whether a report may move from one
// status to another. Unknown statuses are never valid.
func IsValidStatusTransition(from, to string) bool {
	allowed, ok := validStatusTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type Report struct {
	ID           uuid.UUID `json:"id"`
	PhoneNumber  string    `json:"phone_number"`
	CitizenName  string    `json:"citizen_name"`
	IssueAddress string    `json:"issue_address"`
	IssueType    string    `json:"issue_type"`
	Description  string    `json:"description"`
	PhotoURLs    []string  `json:"photo_urls"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateReportRequest struct {
	PhoneNumber  string   `json:"phone_number" validate:"required,phone"`
	CitizenName  string   `json:"citizen_name" validate:"required"`
	IssueAddress string   `json:"issue_address" validate:"required"`
	IssueType    string   `json:"issue_type" validate:"required,oneof=pothole water_break streetlight trash graffiti other"`
	Description  string   `json:"description"`
	PhotoKeys    []string `json:"photo_keys,omitempty"`
}

// UpdateReportStatusRequest carries a partial update: nil/empty fields
// are left untouched. ExpectedUpdatedAt, when set, makes the write
// conditional so concurrent staff edits surface as a conflict instead
// of silently losing one of them.
type UpdateReportStatusRequest struct {
	Status            *string    `json:"status,omitempty" validate:"omitempty,oneof=new in_progress resolved"`
	Notes             *string    `json:"notes,omitempty"`
	PhotoKeys         []string   `json:"photo_keys,omitempty"`
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at,omitempty"`
}

type ListReportsParams struct {
	Status    string
	IssueType string
	Cursor    string
	Limit     int
}

type Pagination struct {
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"has_more"`
}

type ReportListPage struct {
	Reports    []Report   `json:"reports"`
	Pagination Pagination `json:"pagination"`
}
