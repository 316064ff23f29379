package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/usario/creators-services/api/middleware"
	"github.com/usario/creators-services/db"
	"github.com/usario/creators-services/internal/authn"
	"github.com/usario/creators-services/models"
)

// WriteResponse writes response as JSON. A non-empty location is sent as the
// Location header.
func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {
	w.Header().Set("Content-Type", "application/json")
	// Portals poll these endpoints and must see fresh data.
	w.Header().Set("Cache-Control", "max-age=0")

	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// WriteError writes a JSON error body.
func WriteError(w http.ResponseWriter, statusCode int, msg string) {
	WriteResponse(w, statusCode, models.ErrorResponse{Error: msg})
}

// writeStoreError maps db sentinels onto HTTP statuses. Anything else is
// logged and reported as a 500.
func writeStoreError(w http.ResponseWriter, logger *zerolog.Logger, err error, notFound, conflict string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		logger.Warn().Err(err).Msg(notFound)
		WriteError(w, http.StatusNotFound, notFound)
	case errors.Is(err, db.ErrConflict):
		logger.Warn().Err(err).Msg(conflict)
		WriteError(w, http.StatusConflict, conflict)
	default:
		logger.Error().Err(err).Msg("database error")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// requestClaims returns the caller's claims and user ID.
func requestClaims(w http.ResponseWriter, r *http.Request) (authn.Claims, uuid.UUID, bool) {
	logger := zerolog.Ctx(r.Context())

	claims, ok := r.Context().Value(middleware.ClaimsKey).(authn.Claims)
	if !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return authn.Claims{}, uuid.Nil, false
	}

	userID, err := claims.UserID()
	if err != nil {
		logger.Warn().Err(err).Msg("Unauthorized request: invalid subject")
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return authn.Claims{}, uuid.Nil, false
	}
	return claims, userID, true
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// uuidVar parses a UUID path variable, writing a 400 when it is malformed.
func uuidVar(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("var", name).Msg("Invalid ID in path")
		WriteError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// int64Var parses a numeric path variable, writing a 400 when it is malformed.
func int64Var(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("var", name).Msg("Invalid ID in path")
		WriteError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// canAccessClient reports whether the caller may see a client's data.
func canAccessClient(ctx context.Context, svc *Service, claims authn.Claims, userID, clientID uuid.UUID) (bool, error) {
	if claims.IsAdmin() {
		return true, nil
	}
	return svc.DB.IsAssigned(ctx, userID, clientID)
}

// visibleClientIDs returns nil for admins (everything is visible) and the
// assigned client IDs for everyone else.
func visibleClientIDs(ctx context.Context, svc *Service, claims authn.Claims, userID uuid.UUID) ([]uuid.UUID, error) {
	if claims.IsAdmin() {
		return nil, nil
	}
	return svc.DB.AssignedClientIDs(ctx, userID)
}
