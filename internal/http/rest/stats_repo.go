package rest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cityline/cityline_api/internal/model"
)

// GetReportStatsRepo aggregates report statistics in the database. The
// four independent queries run concurrently against the pool.
func (api *API) GetReportStatsRepo(ctx context.Context) (model.ReportStats, error) {
	var (
		wg           sync.WaitGroup
		statusCounts map[string]int
		typeCounts   map[string]int
		recent       int
		avgHours     *float64
		daily        map[string]int

		statusErr, typeErr, timingErr, dailyErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		statusCounts, statusErr = api.countReportsByColumn(ctx, "status")
	}()
	go func() {
		defer wg.Done()
		typeCounts, typeErr = api.countReportsByColumn(ctx, "issue_type")
	}()
	go func() {
		defer wg.Done()
		recent, avgHours, timingErr = api.reportTimingAggregates(ctx)
	}()
	go func() {
		defer wg.Done()
		daily, dailyErr = api.countReportsByDay(ctx)
	}()
	wg.Wait()

	for _, err := range []error{statusErr, typeErr, timingErr, dailyErr} {
		if err != nil {
			return model.ReportStats{}, err
		}
	}

	return buildReportStats(time.Now().UTC(), statusCounts, typeCounts, recent, avgHours, daily), nil
}

func (api *API) countReportsByColumn(ctx context.Context, column string) (map[string]int, error) {
	var query string
	switch column {
	case "status":
		query = `SELECT status, COUNT(*) FROM reports GROUP BY status`
	case "issue_type":
		query = `SELECT issue_type, COUNT(*) FROM reports GROUP BY issue_type`
	default:
		return nil, fmt.Errorf("unsupported aggregation column %q", column)
	}

	rows, err := api.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting reports by %s: %w", column, err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

func (api *API) reportTimingAggregates(ctx context.Context) (int, *float64, error) {
	query := `
        SELECT
            COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '24 hours'),
            AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 3600.0)
                FILTER (WHERE status = 'resolved')
        FROM reports`

	var recent int
	var avgHours *float64
	if err := api.DB.QueryRow(ctx, query).Scan(&recent, &avgHours); err != nil {
		return 0, nil, fmt.Errorf("report timing aggregates: %w", err)
	}
	return recent, avgHours, nil
}

func (api *API) countReportsByDay(ctx context.Context) (map[string]int, error) {
	query := `
        SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
        FROM reports
        WHERE created_at >= date_trunc('day', NOW() AT TIME ZONE 'UTC') - INTERVAL '6 days'
        GROUP BY day`

	rows, err := api.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting reports by day: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day] = count
	}
	return counts, rows.Err()
}

// buildReportStats assembles the response shape: every known status is
// present even at zero, and the daily series always covers the last
// seven days.
func buildReportStats(now time.Time, statusCounts, typeCounts map[string]int, recent int, avgHours *float64, daily map[string]int) model.ReportStats {
	byStatus := map[string]int{
		model.StatusNew:        0,
		model.StatusInProgress: 0,
		model.StatusResolved:   0,
	}
	total := 0
	for status, count := range statusCounts {
		byStatus[status] = count
		total += count
	}

	byIssueType := map[string]int{}
	for issueType, count := range typeCounts {
		byIssueType[issueType] = count
	}

	dailyReports := map[string]int{}
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		dailyReports[day] = daily[day]
	}

	return model.ReportStats{
		Total:                  total,
		ByStatus:               byStatus,
		ByIssueType:            byIssueType,
		RecentReports:          recent,
		AverageResolutionHours: avgHours,
		DailyReports:           dailyReports,
	}
}
