package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/usario/creators-services/internal/events"
	"github.com/usario/creators-services/models"
)

const (
	clientsTable = "clients"
	clientFields = `c.id, c.name, c.description, c.created_at`
)

func scanClient(row rowScanner) (models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	return c, err
}

// CreateClient inserts a new client.
func (db *CRMDB) CreateClient(ctx context.Context, req models.ClientRequest) (*models.Client, error) {
	client := models.Client{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := db.DB.ExecContext(ctx, `
		INSERT INTO clients (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)`,
		client.ID, client.Name, client.Description, client.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting client: %w", translate(err))
	}

	db.publish(clientsTable, events.Insert, client)
	return &client, nil
}

// GetClient retrieves a client by ID. A missing client returns nil, nil.
func (db *CRMDB) GetClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	row := db.DB.QueryRowContext(ctx, `SELECT `+clientFields+` FROM clients c WHERE c.id = $1`, clientID)

	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning client: %w", err)
	}
	return &c, nil
}

// ListClients returns every client, with the names of its team members.
func (db *CRMDB) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := db.DB.QueryContext(ctx, `
		SELECT `+clientFields+`,
			COALESCE(array_agg(u.full_name ORDER BY u.full_name) FILTER (WHERE u.id IS NOT NULL), '{}')
		FROM clients c
		LEFT JOIN user_client_assignments a ON a.client_id = c.id
		LEFT JOIN users u ON u.id = a.user_id
		GROUP BY c.id
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var c models.Client
		var team pq.StringArray
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &team); err != nil {
			return nil, fmt.Errorf("error scanning clients: %w", err)
		}
		c.TeamMembers = []string(team)
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// ListUserClients returns the clients assigned to a user.
func (db *CRMDB) ListUserClients(ctx context.Context, userID uuid.UUID) ([]models.Client, error) {
	rows, err := db.DB.QueryContext(ctx, `
		SELECT `+clientFields+`
		FROM clients c
		JOIN user_client_assignments a ON a.client_id = c.id
		WHERE a.user_id = $1
		ORDER BY c.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving user clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning clients: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClient replaces a client's name and description.
func (db *CRMDB) UpdateClient(ctx context.Context, clientID uuid.UUID, req models.ClientRequest) (*models.Client, error) {
	row := db.DB.QueryRowContext(ctx, `
		UPDATE clients c SET name = $2, description = $3
		WHERE c.id = $1
		RETURNING `+clientFields,
		clientID, req.Name, req.Description)

	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating client: %w", translate(err))
	}

	db.publish(clientsTable, events.Update, c)
	return &c, nil
}

// DeleteClient removes a client. Assignments and influencers go with it.
func (db *CRMDB) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	res, err := db.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
	if err != nil {
		return fmt.Errorf("error deleting client: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	db.publish(clientsTable, events.Delete, map[string]uuid.UUID{"id": clientID})
	return nil
}
