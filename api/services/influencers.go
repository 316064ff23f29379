package services

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/usario/creators-services/db"
	"github.com/usario/creators-services/internal/authn"
	"github.com/usario/creators-services/models"
)

// parseInfluencerFilter reads the list query parameters. Restricting to the
// caller's visible clients is done by the caller.
func parseInfluencerFilter(svc *Service, r *http.Request, userID uuid.UUID) (models.InfluencerFilter, error) {
	q := r.URL.Query()
	var filter models.InfluencerFilter

	if v := q.Get("client_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, fmt.Errorf("invalid client_id")
		}
		filter.ClientID = &id
	}
	if v := q.Get("submitted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid submitted")
		}
		filter.Submitted = &b
	}
	if v := q.Get("added_by"); v != "" {
		if v == "me" {
			filter.AddedBy = &userID
		} else {
			id, err := uuid.Parse(v)
			if err != nil {
				return filter, fmt.Errorf("invalid added_by")
			}
			filter.AddedBy = &id
		}
	}
	if v := q.Get("date"); v != "" {
		var day time.Time
		if v == "today" {
			day = svc.clock()
		} else {
			d, err := time.Parse(models.DateLayout, v)
			if err != nil {
				return filter, fmt.Errorf("invalid date")
			}
			day = d
		}
		filter.AddedOn = &day
	}
	filter.Search = strings.TrimSpace(q.Get("q"))
	return filter, nil
}

// GetInfluencersService lists the influencers visible to the caller.
func GetInfluencersService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	filter, err := parseInfluencerFilter(svc, r, userID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter.ClientIDs, err = visibleClientIDs(r.Context(), svc, claims, userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve assignments")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	influencers, err := svc.DB.ListInfluencers(r.Context(), filter)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve influencers")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Debug().Int("influencer_count", len(influencers)).Msg("Retrieved influencers")
	WriteResponse(w, http.StatusOK, models.InfluencersResponse{Influencers: influencers})
}

// CreateInfluencerService adds a prospect for a client the caller works on.
func CreateInfluencerService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	var req models.InfluencerRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	req.ClientID = strings.TrimSpace(req.ClientID)
	req.Name = strings.TrimSpace(req.Name)
	req.BusinessEmail = strings.TrimSpace(req.BusinessEmail)
	for _, f := range [][2]string{{"client_id", req.ClientID}, {"name", req.Name}, {"business_email", req.BusinessEmail}} {
		if f[1] == "" {
			WriteError(w, http.StatusBadRequest, f[0]+" is required")
			return
		}
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid client_id")
		return
	}
	if req.InstagramFollowers < 0 || req.TikTokFollowers < 0 || req.AverageViews < 0 || req.EngagementRate < 0 {
		WriteError(w, http.StatusBadRequest, "Counts and rates cannot be negative")
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

	inf, err := svc.DB.CreateInfluencer(r.Context(), newInfluencer(req, clientID, userID))
	if err != nil {
		writeStoreError(w, logger, err, "Client not found", "Influencer with this email already exists for the selected client")
		return
	}

	logger.Info().Int64("influencer_id", inf.ID).Str("client_id", clientID.String()).Msg("Influencer created")
	WriteResponse(w, http.StatusCreated, models.InfluencerResponse{Influencer: *inf},
		fmt.Sprintf("%s/%d", r.URL.Path, inf.ID))
}

func newInfluencer(req models.InfluencerRequest, clientID, addedBy uuid.UUID) models.Influencer {
	return models.Influencer{
		ClientID:           clientID,
		AddedByUserID:      addedBy,
		Name:               req.Name,
		BusinessEmail:      req.BusinessEmail,
		InstagramFollowers: req.InstagramFollowers,
		TikTokFollowers:    req.TikTokFollowers,
		AverageViews:       req.AverageViews,
		EngagementRate:     req.EngagementRate,
		InstagramURL:       strings.TrimSpace(req.InstagramURL),
		TikTokURL:          strings.TrimSpace(req.TikTokURL),
		Notes:              req.Notes,
	}
}

// loadInfluencer fetches the influencer named in the path and checks the
// caller may see it.
func loadInfluencer(svc *Service, w http.ResponseWriter, r *http.Request) (*models.Influencer, authn.Claims, uuid.UUID, bool) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return nil, claims, userID, false
	}
	id, ok := int64Var(w, r, "influencer-id")
	if !ok {
		return nil, claims, userID, false
	}

	inf, err := svc.DB.GetInfluencer(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Int64("influencer_id", id).Msg("Failed to retrieve influencer")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return nil, claims, userID, false
	}
	if inf == nil {
		WriteError(w, http.StatusNotFound, "Influencer not found")
		return nil, claims, userID, false
	}

	if inf.AddedByUserID != userID {
		allowed, err := canAccessClient(r.Context(), svc, claims, userID, inf.ClientID)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to check client access")
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return nil, claims, userID, false
		}
		if !allowed {
			logger.Warn().Int64("influencer_id", id).Msg("Access denied")
			WriteError(w, http.StatusForbidden, "Access denied")
			return nil, claims, userID, false
		}
	}
	return inf, claims, userID, true
}

// GetInfluencerService returns a single influencer.
func GetInfluencerService(svc *Service, w http.ResponseWriter, r *http.Request) {
	inf, _, _, ok := loadInfluencer(svc, w, r)
	if !ok {
		return
	}
	WriteResponse(w, http.StatusOK, models.InfluencerResponse{Influencer: *inf})
}

// UpdateInfluencerService edits an influencer. Only the user who added it or
// an admin may do so.
func UpdateInfluencerService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	inf, claims, userID, ok := loadInfluencer(svc, w, r)
	if !ok {
		return
	}
	if !claims.IsAdmin() && inf.AddedByUserID != userID {
		logger.Warn().Int64("influencer_id", inf.ID).Msg("Access denied: not the owner")
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}

	var update models.InfluencerUpdate
	if err := decodeJSON(r, &update); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if update.Empty() {
		WriteError(w, http.StatusBadRequest, "No valid fields to update")
		return
	}
	if msg := validateUpdate(&update); msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := svc.DB.UpdateInfluencer(r.Context(), inf.ID, update)
	if err != nil {
		writeStoreError(w, logger, err, "Influencer not found", "Influencer with this email already exists for the selected client")
		return
	}

	logger.Info().Int64("influencer_id", inf.ID).Msg("Influencer updated")
	WriteResponse(w, http.StatusOK, models.InfluencerResponse{Influencer: *updated})
}

func validateUpdate(u *models.InfluencerUpdate) string {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	u.Name = trim(u.Name)
	u.BusinessEmail = trim(u.BusinessEmail)
	if u.Name != nil && *u.Name == "" {
		return "name cannot be empty"
	}
	if u.BusinessEmail != nil && *u.BusinessEmail == "" {
		return "business_email cannot be empty"
	}
	for _, n := range []*int64{u.InstagramFollowers, u.TikTokFollowers, u.AverageViews} {
		if n != nil && *n < 0 {
			return "Counts and rates cannot be negative"
		}
	}
	if u.EngagementRate != nil && *u.EngagementRate < 0 {
		return "Counts and rates cannot be negative"
	}
	return ""
}

// DeleteInfluencerService deletes an influencer. Only the user who added it
// or an admin may do so.
func DeleteInfluencerService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	inf, claims, userID, ok := loadInfluencer(svc, w, r)
	if !ok {
		return
	}
	if !claims.IsAdmin() && inf.AddedByUserID != userID {
		logger.Warn().Int64("influencer_id", inf.ID).Msg("Access denied: not the owner")
		WriteError(w, http.StatusForbidden, "Access denied")
		return
	}

	if err := svc.DB.DeleteInfluencer(r.Context(), inf.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Influencer not found")
			return
		}
		logger.Error().Err(err).Msg("Failed to delete influencer")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info().Int64("influencer_id", inf.ID).Msg("Influencer deleted")
	WriteResponse(w, http.StatusOK, models.MessageResponse{Message: "Influencer deleted successfully"})
}
