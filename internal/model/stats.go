package model

// ReportStats is computed on demand and cached briefly; it is never
// persisted. ByStatus always carries all three statuses and sums to
// Total. AverageResolutionHours is omitted entirely when no report has
// been resolved. DailyReports holds exactly seven ISO dates, zero
// filled for quiet days.
type ReportStats struct {
	Total                  int            `json:"total"`
	ByStatus               map[string]int `json:"by_status"`
	ByIssueType            map[string]int `json:"by_issue_type"`
	RecentReports          int            `json:"recent_reports"`
	AverageResolutionHours *float64       `json:"average_resolution_hours,omitempty"`
	DailyReports           map[string]int `json:"daily_reports"`
}
