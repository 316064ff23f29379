package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/usario/creators-services/internal/events"
	"github.com/usario/creators-services/models"
)

const (
	usersTable = "users"
	userFields = `id, email, full_name, role, created_at`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt)
	return u, err
}

// CreateUser inserts a user with an already hashed password.
func (db *CRMDB) CreateUser(ctx context.Context, user models.User, passwordHash string) (*models.User, error) {
	user.ID = uuid.New()
	user.Email = strings.TrimSpace(user.Email)
	user.CreatedAt = time.Now().UTC()

	_, err := db.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.FullName, user.Role, passwordHash, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting user: %w", translate(err))
	}

	db.publish(usersTable, events.Insert, user)
	return &user, nil
}

// GetUser retrieves a user by ID. A missing user returns nil, nil.
func (db *CRMDB) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	row := db.DB.QueryRowContext(ctx, `SELECT `+userFields+` FROM users WHERE id = $1`, userID)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &u, nil
}

// GetUserCredentials looks a user up by email, case-insensitively, and
// returns the stored password hash alongside it.
func (db *CRMDB) GetUserCredentials(ctx context.Context, email string) (*models.User, string, error) {
	row := db.DB.QueryRowContext(ctx, `
		SELECT id, email, full_name, role, created_at, password_hash
		FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email))

	var u models.User
	var hash string
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("error scanning user: %w", err)
	}
	return &u, hash, nil
}

// ListUsers returns every user, newest first.
func (db *CRMDB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.DB.QueryContext(ctx, `SELECT `+userFields+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning users: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies the non-nil fields of update.
func (db *CRMDB) UpdateUser(ctx context.Context, userID uuid.UUID, update models.UserUpdate) (*models.User, error) {
	row := db.DB.QueryRowContext(ctx, `
		UPDATE users SET
			full_name = COALESCE($2, full_name),
			role = COALESCE($3, role)
		WHERE id = $1
		RETURNING `+userFields,
		userID, update.FullName, update.Role)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating user: %w", translate(err))
	}

	db.publish(usersTable, events.Update, u)
	return &u, nil
}

// DeleteUser removes a user and their assignments.
func (db *CRMDB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	res, err := db.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	db.publish(usersTable, events.Delete, map[string]uuid.UUID{"id": userID})
	return nil
}
