package handlers

import (
	"net/http"

	services "github.com/usario/creators-services/api/services"
)

// @Summary List influencers
// @Description Admins see every influencer, other users the influencers of their assigned clients. added_by=me and date=today select today's prospects.
// @Tags influencers
// @Produce json
// @Param client_id query string false "Client ID"
// @Param submitted query bool false "Submission status"
// @Param added_by query string false "User ID or me"
// @Param date query string false "YYYY-MM-DD or today"
// @Param q query string false "Name or email search"
// @Success 200 {object} models.InfluencersResponse
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /influencers [get]
func GetInfluencers(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetInfluencersService)
}

// @Summary Add an influencer
// @Tags influencers
// @Accept json
// @Produce json
// @Param body body models.InfluencerRequest true "Influencer"
// @Success 201 {object} models.InfluencerResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /influencers [post]
func CreateInfluencer(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.CreateInfluencerService)
}

// @Summary Get an influencer
// @Tags influencers
// @Produce json
// @Param influencer-id path int true "Influencer ID"
// @Success 200 {object} models.InfluencerResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /influencers/{influencer-id} [get]
func GetInfluencer(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetInfluencerService)
}

// @Summary Update an influencer
// @Description Partial update. Only the user who added the influencer or an admin may edit it.
// @Tags influencers
// @Accept json
// @Produce json
// @Param influencer-id path int true "Influencer ID"
// @Param body body models.InfluencerUpdate true "Fields to change"
// @Success 200 {object} models.InfluencerResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /influencers/{influencer-id} [put]
func UpdateInfluencer(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.UpdateInfluencerService)
}

// @Summary Delete an influencer
// @Tags influencers
// @Produce json
// @Param influencer-id path int true "Influencer ID"
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /influencers/{influencer-id} [delete]
func DeleteInfluencer(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.DeleteInfluencerService)
}

// @Summary Import influencers from CSV
// @Description Accepts a raw CSV body or a multipart form with a file field. Rows that cannot be added are listed in errors.
// @Tags influencers csv
// @Accept text/csv,multipart/form-data
// @Produce json
// @Param client_id query string true "Client ID"
// @Param file formData file false "CSV file"
// @Success 201 {object} models.ImportResponse
// @Success 200 {object} models.ImportResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /influencers/import [post]
func ImportInfluencers(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.ImportInfluencersService)
}

// @Summary Export influencers as CSV
// @Description archive=true also stores the file and returns its key in X-Export-Location.
// @Tags influencers csv
// @Produce text/csv
// @Param type query string false "all, submitted or pending"
// @Param client_id query string false "Client ID"
// @Param archive query bool false "Keep a copy in the exports bucket"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /influencers/export [get]
func ExportInfluencers(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.ExportInfluencersService)
}
