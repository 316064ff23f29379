package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/usario/creators-services/db"
	"github.com/usario/creators-services/internal/analytics"
	"github.com/usario/creators-services/internal/authn"
	"github.com/usario/creators-services/models"
)

const notifyTimeout = 10 * time.Second

// CreateSubmissionService submits a batch of pending influencers for review.
// Non-admins may only submit influencers they added.
func CreateSubmissionService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req models.SubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(req.InfluencerIDs) == 0 {
		WriteError(w, http.StatusBadRequest, "At least one influencer ID is required")
		return
	}

	submit(svc, w, r, claims, userID, req)
}

// SubmitTodayService submits every pending influencer the caller added today.
func SubmitTodayService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req models.SubmissionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			logger.Warn().Err(err).Msg("Invalid request payload")
			WriteError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	pending := false
	today := svc.clock()
	influencers, err := svc.DB.ListInfluencers(r.Context(), models.InfluencerFilter{
		AddedBy:   &userID,
		AddedOn:   &today,
		Submitted: &pending,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve today's influencers")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(influencers) == 0 {
		WriteError(w, http.StatusBadRequest, "No new prospects to submit today")
		return
	}

	req.InfluencerIDs = make([]int64, 0, len(influencers))
	for _, inf := range influencers {
		req.InfluencerIDs = append(req.InfluencerIDs, inf.ID)
	}

	submit(svc, w, r, claims, userID, req)
}

func submit(svc *Service, w http.ResponseWriter, r *http.Request, claims authn.Claims, userID uuid.UUID, req models.SubmissionRequest) {
	logger := zerolog.Ctx(r.Context())

	var owner *uuid.UUID
	if !claims.IsAdmin() {
		owner = &userID
	}

	submission, err := svc.DB.CreateSubmission(r.Context(), userID, req.InfluencerIDs, req.Notes, owner)
	switch {
	case errors.Is(err, db.ErrNotFound):
		logger.Warn().Err(err).Msg("Submission references unknown influencers")
		WriteError(w, http.StatusNotFound, "One or more influencers were not found")
		return
	case errors.Is(err, db.ErrNotOwner):
		logger.Warn().Err(err).Msg("Submission includes influencers added by another user")
		WriteError(w, http.StatusForbidden, "You can only submit influencers you added")
		return
	case errors.Is(err, db.ErrAlreadySubmitted):
		logger.Warn().Err(err).Msg("Submission includes submitted influencers")
		WriteError(w, http.StatusConflict, "One or more influencers have already been submitted")
		return
	case err != nil:
		logger.Error().Err(err).Msg("Failed to create submission")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	submission.SubmittedByName = claims.FullName
	logger.Info().Int64("submission_id", submission.ID).Int("influencer_count", submission.InfluencerCount).
		Msg("Submission created")

	notifyAdmins(svc, r.Context(), logger, *submission)

	WriteResponse(w, http.StatusCreated, models.SubmissionResponse{Submission: *submission},
		fmt.Sprintf("%s/submissions/%d", svc.basePath(), submission.ID))
}

// notifyAdmins emails the admin team. The submission is already committed so
// failures are only logged.
func notifyAdmins(svc *Service, ctx context.Context, logger *zerolog.Logger, submission models.Submission) {
	if svc.Notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if detail, err := svc.DB.GetSubmission(ctx, submission.ID); err == nil && detail != nil {
		submission.Influencers = detail.Influencers
	}
	if err := svc.Notifier.NotifySubmission(ctx, submission); err != nil {
		logger.Warn().Err(err).Int64("submission_id", submission.ID).Msg("Failed to send submission notification")
	}
}

func (svc *Service) basePath() string {
	if svc.Config == nil {
		return ""
	}
	return svc.Config.BasePath
}

// visibleSubmissions returns every submission for admins and the caller's
// own otherwise.
func visibleSubmissions(svc *Service, r *http.Request, claims authn.Claims, userID uuid.UUID) ([]models.Submission, error) {
	if claims.IsAdmin() {
		return svc.DB.ListSubmissions(r.Context(), nil)
	}
	return svc.DB.ListSubmissions(r.Context(), &userID)
}

// GetSubmissionsService lists submissions, newest first.
func GetSubmissionsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	submissions, err := visibleSubmissions(svc, r, claims, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve submissions")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteResponse(w, http.StatusOK, models.SubmissionsResponse{Submissions: submissions})
}

// GetSubmissionHistoryService groups the caller's visible submissions by day.
func GetSubmissionHistoryService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	submissions, err := visibleSubmissions(svc, r, claims, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve submissions")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteResponse(w, http.StatusOK, models.HistoryResponse{History: analytics.History(submissions)})
}

// GetSubmissionService returns a submission with its influencers to the
// submitter or an admin.
func GetSubmissionService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}
	id, ok := int64Var(w, r, "submission-id")
	if !ok {
		return
	}

	submission, err := svc.DB.GetSubmission(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Int64("submission_id", id).Msg("Failed to retrieve submission")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if submission == nil {
		WriteError(w, http.StatusNotFound, "Submission not found")
		return
	}
	if !claims.IsAdmin() && submission.SubmittedByUserID != userID {
		logger.Warn().Int64("submission_id", id).Msg("Access denied")
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}

	WriteResponse(w, http.StatusOK, models.SubmissionResponse{Submission: *submission})
}
