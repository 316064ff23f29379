package services

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/usario/creators-services/internal/authn"
	"github.com/usario/creators-services/models"
)

// SignupService registers a team or client user.
func SignupService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.Role == "" {
		req.Role = models.RoleVA
	}
	if req.Role != models.RoleVA && req.Role != models.RoleClient {
		logger.Warn().Str("role", req.Role).Msg("Signup with disallowed role")
		WriteError(w, http.StatusBadRequest, "Role must be va or client")
		return
	}

	user, ok := createUser(svc, w, r, req)
	if !ok {
		return
	}

	WriteResponse(w, http.StatusCreated, models.SignupResponse{Message: "User created successfully", User: *user})
}

// createUser validates and stores a new user, writing the error response on failure.
func createUser(svc *Service, w http.ResponseWriter, r *http.Request, req models.SignupRequest) (*models.User, bool) {
	logger := zerolog.Ctx(r.Context())

	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		WriteError(w, http.StatusBadRequest, "Email, password, and full name are required")
		return nil, false
	}
	if !models.ValidRole(req.Role) {
		WriteError(w, http.StatusBadRequest, "Invalid role")
		return nil, false
	}

	hash, err := authn.HashPassword(req.Password)
	if errors.Is(err, authn.ErrWeakPassword) {
		WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return nil, false
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	user, err := svc.DB.CreateUser(r.Context(), models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
	}, hash)
	if err != nil {
		writeStoreError(w, logger, err, "User not found", "A user with this email already exists")
		return nil, false
	}

	logger.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("User created")
	return user, true
}

// SigninService exchanges credentials for a session.
func SigninService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.SigninRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, hash, err := svc.DB.GetUserCredentials(r.Context(), req.Email)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to look up user")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || !authn.CheckPassword(hash, req.Password) {
		logger.Info().Msg("Invalid credentials")
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	session, err := svc.Tokens.Issue(*user)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to issue session")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("User signed in")
	WriteResponse(w, http.StatusOK, models.SigninResponse{Message: "Signed in successfully", User: *user, Session: *session})
}

// RefreshService rotates a refresh token into a new session.
func RefreshService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req models.RefreshRequest
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	claims, err := svc.Tokens.Parse(req.RefreshToken)
	if err != nil || claims.TokenType != authn.RefreshToken {
		logger.Info().Err(err).Msg("Invalid refresh token")
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	// Refresh tokens are single use. Only one concurrent claim succeeds.
	if svc.Sessions != nil {
		claimed, err := svc.Sessions.Claim(r.Context(), claims.Id, claims.TTL(time.Now()))
		if err != nil {
			logger.Error().Err(err).Msg("Failed to claim refresh token")
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !claimed {
			WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
	}

	userID, _ := claims.UserID()
	user, err := svc.DB.GetUser(r.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to look up user")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	session, err := svc.Tokens.Issue(*user)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to issue session")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteResponse(w, http.StatusOK, models.SigninResponse{Message: "Session refreshed", User: *user, Session: *session})
}

// SignoutService revokes the presented access token.
func SignoutService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	claims, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	if svc.Sessions != nil {
		if err := svc.Sessions.Revoke(r.Context(), claims.Id, claims.TTL(time.Now())); err != nil {
			logger.Error().Err(err).Msg("Failed to revoke token")
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	logger.Info().Str("user_id", userID.String()).Msg("User signed out")
	WriteResponse(w, http.StatusOK, models.MessageResponse{Message: "Signed out successfully"})
}

// CurrentUserService returns the caller's profile.
func CurrentUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	_, userID, ok := requestClaims(w, r)
	if !ok {
		return
	}

	user, err := svc.DB.GetUser(r.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to look up user")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	WriteResponse(w, http.StatusOK, models.UserResponse{User: *user})
}

// TestService is the liveness check.
func TestService(svc *Service, w http.ResponseWriter, r *http.Request) {
	WriteResponse(w, http.StatusOK, models.TestResponse{
		Message:   "API is working!",
		Timestamp: svc.clock().Format(time.RFC3339),
	})
}
