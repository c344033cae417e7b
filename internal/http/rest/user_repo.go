package rest

import (
	"context"
	"errors"
	"fmt"

	"github.com/cityline/cityline_api/internal/model"
	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

// GetUserByIDRepo retrieves a staff account by ID
func (api *API) GetUserByIDRepo(ctx context.Context, id string) (model.User, error) {
	query := `
        SELECT id, email, firstname, lastname, role, created_at, updated_at
        FROM users WHERE id = $1`

	var user model.User
	err := api.DB.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return user, err
}

// ListAdminEmailsRepo returns the email addresses of admin accounts.
func (api *API) ListAdminEmailsRepo(ctx context.Context, limit int) ([]string, error) {
	query := `
        SELECT email FROM users
        WHERE role = $1 AND email IS NOT NULL
        ORDER BY created_at
        LIMIT $2`

	rows, err := api.DB.Query(ctx, query, model.RoleAdmin, limit)
	if err != nil {
		return nil, fmt.Errorf("querying admin emails: %w", err)
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, err
		}
		emails = append(emails, address)
	}
	return emails, rows.Err()
}
