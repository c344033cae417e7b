package rest

import (
	"testing"
	"time"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildReportStats(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	avg := 18.5

	stats := buildReportStats(now,
		map[string]int{"new": 3, "resolved": 2},
		map[string]int{"pothole": 4, "trash": 1},
		2,
		&avg,
		map[string]int{"2026-08-29": 2, "2026-08-27": 3},
	)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.ByStatus["new"])
	assert.Equal(t, 0, stats.ByStatus["in_progress"])
	assert.Equal(t, 2, stats.ByStatus["resolved"])
	assert.Equal(t, 4, stats.ByIssueType["pothole"])
	assert.Equal(t, 2, stats.RecentReports)
	assert.Equal(t, &avg, stats.AverageResolutionHours)

	// a full week, zero-filled
	assert.Len(t, stats.DailyReports, 7)
	assert.Equal(t, 2, stats.DailyReports["2026-08-29"])
	assert.Equal(t, 0, stats.DailyReports["2026-08-28"])
	assert.Equal(t, 3, stats.DailyReports["2026-08-27"])
	assert.Equal(t, 0, stats.DailyReports["2026-08-23"])
}

func TestBuildReportStatsNoResolved(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	stats := buildReportStats(now, map[string]int{"new": 1}, nil, 0, nil, nil)

	assert.Equal(t, 1, stats.Total)
	assert.Nil(t, stats.AverageResolutionHours)
	assert.Equal(t, map[string]int{
		model.StatusNew:        1,
		model.StatusInProgress: 0,
		model.StatusResolved:   0,
	}, stats.ByStatus)
	assert.Len(t, stats.DailyReports, 7)
	for day, count := range stats.DailyReports {
		assert.Zero(t, count, day)
	}
}
