package handlers

import (
	"net/http"

	services "github.com/usario/creators-services/api/services"
)

// @Summary Submit influencers
// @Description Submits pending influencers for review and emails the admins.
// @Tags submissions
// @Accept json
// @Produce json
// @Param body body models.SubmissionRequest true "Influencers to submit"
// @Success 201 {object} models.SubmissionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /submissions [post]
func CreateSubmission(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.CreateSubmissionService)
}

// @Summary Submit today's prospects
// @Tags submissions
// @Accept json
// @Produce json
// @Param body body models.SubmissionRequest false "Notes"
// @Success 201 {object} models.SubmissionResponse
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /submissions/today [post]
func SubmitToday(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.SubmitTodayService)
}

// @Summary List submissions
// @Tags submissions
// @Produce json
// @Success 200 {object} models.SubmissionsResponse
// @Security BearerAuth
// @Router /submissions [get]
func GetSubmissions(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetSubmissionsService)
}

// @Summary Submission history
// @Description Submissions grouped by day, newest first.
// @Tags submissions
// @Produce json
// @Success 200 {object} models.HistoryResponse
// @Security BearerAuth
// @Router /submissions/history [get]
func GetSubmissionHistory(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetSubmissionHistoryService)
}

// @Summary Get a submission
// @Tags submissions
// @Produce json
// @Param submission-id path int true "Submission ID"
// @Success 200 {object} models.SubmissionResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /submissions/{submission-id} [get]
func GetSubmission(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetSubmissionService)
}
