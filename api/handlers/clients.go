package handlers

import (
	"net/http"

	services "github.com/usario/creators-services/api/services"
)

// @Summary List clients
// @Description Admins see every client with its team members, other users see the clients assigned to them.
// @Tags clients
// @Produce json
// @Success 200 {object} models.ClientsResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clients [get]
func GetClients(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetClientsService)
}

// @Summary Create a client
// @Tags clients
// @Accept json
// @Produce json
// @Param body body models.ClientRequest true "Client"
// @Success 201 {object} models.ClientResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clients [post]
func CreateClient(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.CreateClientService)
}

// @Summary Get a client
// @Tags clients
// @Produce json
// @Param client-id path string true "Client ID"
// @Success 200 {object} models.ClientResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clients/{client-id} [get]
func GetClient(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetClientService)
}

// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Param client-id path string true "Client ID"
// @Param body body models.ClientRequest true "Client"
// @Success 200 {object} models.ClientResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clients/{client-id} [put]
func UpdateClient(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.UpdateClientService)
}

// @Summary Delete a client
// @Description Also deletes the client's assignments and influencers.
// @Tags clients
// @Param client-id path string true "Client ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clients/{client-id} [delete]
func DeleteClient(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.DeleteClientService)
}

// @Summary List a client's team
// @Tags clients
// @Produce json
// @Param client-id path string true "Client ID"
// @Success 200 {object} models.UsersResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clients/{client-id}/users [get]
func GetClientTeam(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetClientTeamService)
}

// @Summary Client analytics
// @Description Headline stats, platform distribution, top creators, growth over time and status counts.
// @Tags clients stats
// @Produce json
// @Param client-id path string true "Client ID"
// @Success 200 {object} models.ClientAnalytics
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clients/{client-id}/stats [get]
func GetClientStats(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetClientStatsService)
}

// @Summary Admin overview
// @Tags stats
// @Produce json
// @Success 200 {object} models.OverviewStats
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /stats/overview [get]
func GetOverviewStats(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetOverviewStatsService)
}
