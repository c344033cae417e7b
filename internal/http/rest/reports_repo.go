package rest

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrStaleUpdate    = errors.New("report was modified since it was read")
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// pageLimit clamps a requested page size to the allowed range. Zero or
// negative requests get the default; oversized requests get the
// maximum rather than silently shrinking.
func pageLimit(requested int) int {
	if requested <= 0 {
		return defaultPageSize
	}
	if requested > maxPageSize {
		return maxPageSize
	}
	return requested
}

const reportColumns = `
        id, phone_number, citizen_name, issue_address, issue_type,
        description, photo_urls, status, notes, created_at, updated_at`

// encodeCursor packs a keyset position (created_at, id) into an opaque
// pagination token.
func encodeCursor(t time.Time, id uuid.UUID) string {
	raw := t.UTC().Format(time.RFC3339Nano) + "|" + id.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor: %w", err)
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor timestamp: %w", err)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor id: %w", err)
	}

	return t, id, nil
}

func scanReport(row pgx.Row) (model.Report, error) {
	var report model.Report
	err := row.Scan(
		&report.ID, &report.PhoneNumber, &report.CitizenName, &report.IssueAddress,
		&report.IssueType, &report.Description, &report.PhotoURLs, &report.Status,
		&report.Notes, &report.CreatedAt, &report.UpdatedAt,
	)
	return report, err
}

// CreateReportRepo inserts a new citizen report
func (api *API) CreateReportRepo(ctx context.Context, report model.Report) (model.Report, error) {
	query := `
        INSERT INTO reports (
            id, phone_number, citizen_name, issue_address, issue_type,
            description, photo_urls, status, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
        ) RETURNING` + reportColumns

	if report.PhotoURLs == nil {
		report.PhotoURLs = []string{}
	}

	row := api.DB.QueryRow(ctx, query,
		report.ID, report.PhoneNumber, report.CitizenName, report.IssueAddress,
		report.IssueType, report.Description, report.PhotoURLs, report.Status,
	)
	return scanReport(row)
}

// GetReportByIDRepo retrieves a report by ID
func (api *API) GetReportByIDRepo(ctx context.Context, id uuid.UUID) (model.Report, error) {
	query := `SELECT` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(api.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Report{}, ErrReportNotFound
	}
	return report, err
}

// ListReportsRepo retrieves reports newest first with optional status
// and issue-type filters, keyset paginated on (created_at, id).
func (api *API) ListReportsRepo(ctx context.Context, params model.ListReportsParams) (model.ReportListPage, error) {
	limit := pageLimit(params.Limit)

	query := `SELECT` + reportColumns + ` FROM reports WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if params.Status != "" {
		argCount++
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, params.Status)
	}
	if params.IssueType != "" {
		argCount++
		query += fmt.Sprintf(" AND issue_type = $%d", argCount)
		args = append(args, params.IssueType)
	}
	if params.Cursor != "" {
		afterTime, afterID, err := decodeCursor(params.Cursor)
		if err != nil {
			return model.ReportListPage{}, err
		}
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argCount+1, argCount+2)
		args = append(args, afterTime, afterID)
		argCount += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argCount+1)
	args = append(args, limit+1)

	rows, err := api.DB.Query(ctx, query, args...)
	if err != nil {
		return model.ReportListPage{}, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return model.ReportListPage{}, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return model.ReportListPage{}, err
	}

	page := model.ReportListPage{Reports: reports}
	if len(reports) > limit {
		page.Reports = reports[:limit]
		last := page.Reports[limit-1]
		page.Pagination = model.Pagination{
			Cursor:  encodeCursor(last.CreatedAt, last.ID),
			HasMore: true,
		}
	}
	return page, nil
}

// UpdateReportStatusRepo applies a partial update. Only the fields
// present in the request are written; verified photo URLs are appended
// to the existing list; updated_at is always bumped. When the request
// carries ExpectedUpdatedAt the write is conditional on it, and the
// update plus the existence recheck run in one transaction so a
// concurrent delete cannot be misread as a stale write.
func (api *API) UpdateReportStatusRepo(ctx context.Context, id uuid.UUID, req model.UpdateReportStatusRequest, verifiedPhotos []string) (model.Report, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argCount := 1

	if req.Status != nil {
		argCount++
		sets = append(sets, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *req.Status)
	}
	if req.Notes != nil {
		argCount++
		sets = append(sets, fmt.Sprintf("notes = $%d", argCount))
		args = append(args, *req.Notes)
	}
	if len(verifiedPhotos) > 0 {
		argCount++
		sets = append(sets, fmt.Sprintf("photo_urls = photo_urls || $%d", argCount))
		args = append(args, verifiedPhotos)
	}

	where := "id = $1"
	if req.ExpectedUpdatedAt != nil {
		argCount++
		where += fmt.Sprintf(" AND updated_at = $%d", argCount)
		args = append(args, *req.ExpectedUpdatedAt)
	}

	query := fmt.Sprintf(`UPDATE reports SET %s WHERE %s RETURNING%s`,
		strings.Join(sets, ", "), where, reportColumns)

	var report model.Report
	txErr := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		var err error
		report, err = scanReport(tx.QueryRow(ctx, query, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the report is gone or the conditional check failed.
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reports WHERE id = $1)`, id).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return ErrStaleUpdate
			}
			return ErrReportNotFound
		}
		return err
	})
	if txErr != nil {
		return model.Report{}, txErr
	}
	return report, nil
}
