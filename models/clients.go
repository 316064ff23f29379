package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is the brand on whose behalf influencers are sourced.
type Client struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	TeamMembers []string  `json:"team_members,omitempty"`
}

// ClientsResponse holds a list of clients.
type ClientsResponse struct {
	Clients []Client `json:"clients"`
}

// ClientResponse represents a response with a single client.
type ClientResponse struct {
	Client Client `json:"client"`
}

// ClientRequest is the create/update payload for a client.
type ClientRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Assignment links a user to a client they work on or view.
type Assignment struct {
	UserID    uuid.UUID `json:"user_id"`
	ClientID  uuid.UUID `json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignmentRequest is the payload for assigning a client to a user.
type AssignmentRequest struct {
	ClientID string `json:"client_id"`
}

// AssignmentResponse wraps a single assignment.
type AssignmentResponse struct {
	Assignment Assignment `json:"assignment"`
}
