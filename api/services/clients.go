package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/usario/creators-services/internal/analytics"
	"github.com/usario/creators-services/models"
)

// GetClientsService lists every client for admins and the assigned clients
// for everyone else.
func GetClientsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var (
		clients []models.Client
		err     error
	)
	if claims.IsAdmin() {
		clients, err = svc.DB.ListClients(r.Context())
	} else {
		clients, err = svc.DB.ListUserClients(r.Context(), userID)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve clients")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Debug().Int("client_count", len(clients)).Msg("Retrieved clients")
	WriteResponse(w, http.StatusOK, models.ClientsResponse{Clients: clients})
}

// CreateClientService creates a client. Admin only.
func CreateClientService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.ClientRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, "Client name is required")
		return
	}

	client, err := svc.DB.CreateClient(r.Context(), req)
	if err != nil {
		writeStoreError(w, logger, err, "Client not found", "Client already exists")
		return
	}

	logger.Info().Str("client_id", client.ID.String()).Msg("Client created")
	WriteResponse(w, http.StatusCreated, models.ClientResponse{Client: *client},
		fmt.Sprintf("%s/%s", r.URL.Path, client.ID))
}

// GetClientService returns a single client to an admin or assigned user.
func GetClientService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}
	clientID, ok := uuidVar(w, r, "client-id")
	if !ok {
		return
	}

	allowed, err := canAccessClient(r.Context(), svc, claims, userID, clientID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check client access")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !allowed {
		logger.Warn().Str("client_id", clientID.String()).Msg("Access denied for this client")
		WriteError(w, http.StatusForbidden, "Access denied for this client")
		return
	}

	client, err := svc.DB.GetClient(r.Context(), clientID)
	if err != nil {
		logger.Error().Err(err).Str("client_id", clientID.String()).Msg("Failed to retrieve client")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if client == nil {
		WriteError(w, http.StatusNotFound, "Client not found")
		return
	}

	WriteResponse(w, http.StatusOK, models.ClientResponse{Client: *client})
}

// UpdateClientService renames or redescribes a client. Admin only.
func UpdateClientService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	clientID, ok := uuidVar(w, r, "client-id")
	if !ok {
		return
	}

	var req models.ClientRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, "Client name is required")
		return
	}

	client, err := svc.DB.UpdateClient(r.Context(), clientID, req)
	if err != nil {
		writeStoreError(w, logger, err, "Client not found", "Client already exists")
		return
	}

	logger.Info().Str("client_id", clientID.String()).Msg("Client updated")
	WriteResponse(w, http.StatusOK, models.ClientResponse{Client: *client})
}

// DeleteClientService deletes a client with its assignments and influencers. Admin only.
func DeleteClientService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	clientID, ok := uuidVar(w, r, "client-id")
	if !ok {
		return
	}

	if err := svc.DB.DeleteClient(r.Context(), clientID); err != nil {
		writeStoreError(w, logger, err, "Client not found", "Client is still referenced")
		return
	}

	logger.Info().Str("client_id", clientID.String()).Msg("Client deleted")
	WriteResponse(w, http.StatusNoContent, nil)
}

// GetClientTeamService lists the users assigned to a client. Admin only.
func GetClientTeamService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	clientID, ok := uuidVar(w, r, "client-id")
	if !ok {
		return
	}

	client, err := svc.DB.GetClient(r.Context(), clientID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve client")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if client == nil {
		WriteError(w, http.StatusNotFound, "Client not found")
		return
	}

	users, err := svc.DB.ClientTeam(r.Context(), clientID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve client team")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteResponse(w, http.StatusOK, models.UsersResponse{Users: users})
}

// GetClientStatsService returns the client portal analytics.
func GetClientStatsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}
	clientID, ok := uuidVar(w, r, "client-id")
	if !ok {
		return
	}

	allowed, err := canAccessClient(r.Context(), svc, claims, userID, clientID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check client access")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !allowed {
		logger.Warn().Str("client_id", clientID.String()).Msg("Access denied for this client")
		WriteError(w, http.StatusForbidden, "Access denied for this client")
		return
	}

	client, err := svc.DB.GetClient(r.Context(), clientID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve client")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if client == nil {
		WriteError(w, http.StatusNotFound, "Client not found")
		return
	}

	influencers, err := svc.DB.ListInfluencers(r.Context(), models.InfluencerFilter{ClientID: &clientID})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve influencers")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteResponse(w, http.StatusOK, analytics.ForClient(*client, influencers, svc.today()))
}

// GetOverviewStatsService returns the admin dashboard counts. Admin only.
func GetOverviewStatsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	clients, err := svc.DB.ListClients(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve clients")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	influencers, err := svc.DB.ListInfluencers(r.Context(), models.InfluencerFilter{})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve influencers")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteResponse(w, http.StatusOK, analytics.Overview(clients, influencers))
}
