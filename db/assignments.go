package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/usario/creators-services/internal/events"
	"github.com/usario/creators-services/models"
)

const assignmentsTable = "user_client_assignments"

// AssignClient links a user to a client. A repeated assignment returns
// ErrConflict and an unknown user or client ErrNotFound.
func (db *CRMDB) AssignClient(ctx context.Context, userID, clientID uuid.UUID) (*models.Assignment, error) {
	a := models.Assignment{UserID: userID, ClientID: clientID, CreatedAt: time.Now().UTC()}

	_, err := db.DB.ExecContext(ctx, `
		INSERT INTO user_client_assignments (user_id, client_id, created_at)
		VALUES ($1, $2, $3)`,
		a.UserID, a.ClientID, a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error assigning client: %w", translate(err))
	}

	db.publish(assignmentsTable, events.Insert, a)
	return &a, nil
}

// UnassignClient removes a user/client link.
func (db *CRMDB) UnassignClient(ctx context.Context, userID, clientID uuid.UUID) error {
	res, err := db.DB.ExecContext(ctx, `
		DELETE FROM user_client_assignments WHERE user_id = $1 AND client_id = $2`,
		userID, clientID)
	if err != nil {
		return fmt.Errorf("error removing assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	db.publish(assignmentsTable, events.Delete, models.Assignment{UserID: userID, ClientID: clientID})
	return nil
}

// IsAssigned reports whether a user is assigned to a client.
func (db *CRMDB) IsAssigned(ctx context.Context, userID, clientID uuid.UUID) (bool, error) {
	var exists bool
	err := db.DB.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_client_assignments WHERE user_id = $1 AND client_id = $2)`,
		userID, clientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking assignment: %w", err)
	}
	return exists, nil
}

// AssignedClientIDs lists the IDs of the clients a user is assigned to.
func (db *CRMDB) AssignedClientIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.DB.QueryContext(ctx, `
		SELECT client_id FROM user_client_assignments WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving assignments: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning assignments: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ClientTeam returns the users assigned to a client.
func (db *CRMDB) ClientTeam(ctx context.Context, clientID uuid.UUID) ([]models.User, error) {
	rows, err := db.DB.QueryContext(ctx, `
		SELECT u.id, u.email, u.full_name, u.role, u.created_at
		FROM users u
		JOIN user_client_assignments a ON a.user_id = u.id
		WHERE a.client_id = $1
		ORDER BY u.full_name`, clientID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving client team: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning client team: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
