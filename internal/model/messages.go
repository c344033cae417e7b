package model

type BroadcastRequest struct {
	Message  string `json:"message" validate:"required"`
	SenderID string `json:"sender_id,omitempty"`
}

type TargetedRequest struct {
	Message      string   `json:"message" validate:"required"`
	CitizenIDs   []string `json:"citizen_ids,omitempty" validate:"omitempty,dive,uuid"`
	PhoneNumbers []string `json:"phone_numbers,omitempty" validate:"omitempty,dive,phone"`
	SenderID     string   `json:"sender_id,omitempty"`
}

// BroadcastResult aggregates per-recipient outcomes across every batch
// of one send operation. SentCount + FailedCount always equals
// TotalCitizens once all batches are processed.
type BroadcastResult struct {
	TotalCitizens int      `json:"total_citizens"`
	SentCount     int      `json:"sent_count"`
	FailedCount   int      `json:"failed_count"`
	Errors        []string `json:"errors"`
}
