package rest

import (
	"context"
	"errors"
	"fmt"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/cityline/cityline_api/util"
	"github.com/jackc/pgx/v5"
)

var ErrCitizenNotFound = errors.New("citizen not found")

const citizenColumns = ` id, phone_number, subscribed, subscribed_at`

func scanCitizen(row pgx.Row) (model.Citizen, error) {
	var c model.Citizen
	err := row.Scan(&c.ID, &c.PhoneNumber, &c.Subscribed, &c.SubscribedAt)
	return c, err
}

// AddCitizenRepo subscribes a phone number. Re-adding a number that is
// already on file resubscribes it rather than failing on the unique
// constraint.
func (api *API) AddCitizenRepo(ctx context.Context, phoneNumber string) (model.Citizen, error) {
	query := `
        INSERT INTO citizens (id, phone_number, subscribed, subscribed_at)
        VALUES ($1, $2, true, NOW())
        ON CONFLICT (phone_number)
        DO UPDATE SET subscribed = true, subscribed_at = NOW()
        RETURNING` + citizenColumns

	row := api.DB.QueryRow(ctx, query, util.GenerateUUID(), util.NormalizePhone(phoneNumber))
	return scanCitizen(row)
}

// RemoveCitizenRepo unsubscribes a citizen. The row is kept so the
// number's history survives an unsubscribe.
func (api *API) RemoveCitizenRepo(ctx context.Context, id string) error {
	tag, err := api.DB.Exec(ctx, `UPDATE citizens SET subscribed = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCitizenNotFound
	}
	return nil
}

// ListCitizensRepo retrieves citizens newest subscription first, keyset
// paginated on (subscribed_at, id).
func (api *API) ListCitizensRepo(ctx context.Context, params model.ListCitizensParams) (model.CitizenListPage, error) {
	limit := pageLimit(params.Limit)

	query := `SELECT` + citizenColumns + ` FROM citizens WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if params.Subscribed != nil {
		argCount++
		query += fmt.Sprintf(" AND subscribed = $%d", argCount)
		args = append(args, *params.Subscribed)
	}
	if params.PhoneNumber != "" {
		argCount++
		query += fmt.Sprintf(" AND phone_number = $%d", argCount)
		args = append(args, util.NormalizePhone(params.PhoneNumber))
	}
	if params.Cursor != "" {
		afterTime, afterID, err := decodeCursor(params.Cursor)
		if err != nil {
			return model.CitizenListPage{}, err
		}
		query += fmt.Sprintf(" AND (subscribed_at, id) < ($%d, $%d)", argCount+1, argCount+2)
		args = append(args, afterTime, afterID)
		argCount += 2
	}

	query += fmt.Sprintf(" ORDER BY subscribed_at DESC, id DESC LIMIT $%d", argCount+1)
	args = append(args, limit+1)

	rows, err := api.DB.Query(ctx, query, args...)
	if err != nil {
		return model.CitizenListPage{}, fmt.Errorf("querying citizens: %w", err)
	}
	defer rows.Close()

	citizens := []model.Citizen{}
	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return model.CitizenListPage{}, fmt.Errorf("scanning citizen: %w", err)
		}
		citizens = append(citizens, c)
	}
	if err := rows.Err(); err != nil {
		return model.CitizenListPage{}, err
	}

	page := model.CitizenListPage{Citizens: citizens}
	if len(citizens) > limit {
		page.Citizens = citizens[:limit]
		last := page.Citizens[limit-1]
		page.Pagination = model.Pagination{
			Cursor:  encodeCursor(last.SubscribedAt, last.ID),
			HasMore: true,
		}
	}
	return page, nil
}

// ListSubscribedCitizensRepo pages through every subscribed citizen in
// a stable order. Broadcasts loop over this until the page comes back
// short.
func (api *API) ListSubscribedCitizensRepo(ctx context.Context, cursor string, limit int) ([]model.Citizen, string, error) {
	query := `SELECT` + citizenColumns + ` FROM citizens WHERE subscribed = true`
	args := []interface{}{}
	argCount := 0

	if cursor != "" {
		afterTime, afterID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		query += fmt.Sprintf(" AND (subscribed_at, id) < ($%d, $%d)", argCount+1, argCount+2)
		args = append(args, afterTime, afterID)
		argCount += 2
	}

	query += fmt.Sprintf(" ORDER BY subscribed_at DESC, id DESC LIMIT $%d", argCount+1)
	args = append(args, limit)

	rows, err := api.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("querying subscribed citizens: %w", err)
	}
	defer rows.Close()

	citizens := []model.Citizen{}
	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scanning citizen: %w", err)
		}
		citizens = append(citizens, c)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	next := ""
	if len(citizens) == limit {
		last := citizens[len(citizens)-1]
		next = encodeCursor(last.SubscribedAt, last.ID)
	}
	return citizens, next, nil
}

// GetCitizensByIDsRepo resolves a chunk of citizen IDs. Unknown IDs are
// silently absent from the result.
func (api *API) GetCitizensByIDsRepo(ctx context.Context, ids []string) ([]model.Citizen, error) {
	query := `SELECT` + citizenColumns + ` FROM citizens WHERE id = ANY($1::uuid[])`

	rows, err := api.DB.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("querying citizens by ids: %w", err)
	}
	defer rows.Close()

	citizens := []model.Citizen{}
	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning citizen: %w", err)
		}
		citizens = append(citizens, c)
	}
	return citizens, rows.Err()
}

// GetCitizenByPhoneRepo finds the first citizen on file for a phone
// number, matched on its normalized form.
func (api *API) GetCitizenByPhoneRepo(ctx context.Context, phoneNumber string) (model.Citizen, error) {
	query := `SELECT` + citizenColumns + ` FROM citizens WHERE phone_number = $1 LIMIT 1`

	c, err := scanCitizen(api.DB.QueryRow(ctx, query, util.NormalizePhone(phoneNumber)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Citizen{}, ErrCitizenNotFound
	}
	return c, err
}
