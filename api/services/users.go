package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/usario/creators-services/models"
)

// GetUsersService lists every user. Admin only.
func GetUsersService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	users, err := svc.DB.ListUsers(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve users")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteResponse(w, http.StatusOK, models.UsersResponse{Users: users})
}

// CreateUserService creates a user with any role. Admin only.
func CreateUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
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

	user, ok := createUser(svc, w, r, req)
	if !ok {
		return
	}

	WriteResponse(w, http.StatusCreated, models.UserResponse{User: *user},
		fmt.Sprintf("%s/%s", r.URL.Path, user.ID))
}

// selfOrAdmin resolves the user-id path variable and checks the caller is
// that user or an admin.
func selfOrAdmin(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, callerID, ok := requestClaims(w, r)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := uuidVar(w, r, "user-id")
	if !ok {
		return uuid.Nil, false
	}
	if !claims.IsAdmin() && callerID != userID {
		zerolog.Ctx(r.Context()).Warn().Str("user_id", userID.String()).Msg("Access denied")
		WriteError(w, http.StatusForbidden, "Access denied")
		return uuid.Nil, false
	}
	return userID, true
}

// GetUserService returns a user to themselves or an admin.
func GetUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := selfOrAdmin(w, r)
	if !ok {
		return
	}

	user, err := svc.DB.GetUser(r.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	WriteResponse(w, http.StatusOK, models.UserResponse{User: *user})
}

// UpdateUserService changes a user's name or role. Admin only.
func UpdateUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := uuidVar(w, r, "user-id")
	if !ok {
		return
	}

	var update models.UserUpdate
	if err := decodeJSON(r, &update); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if update.FullName == nil && update.Role == nil {
		WriteError(w, http.StatusBadRequest, "No valid fields to update")
		return
	}
	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			WriteError(w, http.StatusBadRequest, "Full name cannot be empty")
			return
		}
		update.FullName = &name
	}
	if update.Role != nil && !models.ValidRole(*update.Role) {
		WriteError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := svc.DB.UpdateUser(r.Context(), userID, update)
	if err != nil {
		writeStoreError(w, logger, err, "User not found", "User already exists")
		return
	}

	logger.Info().Str("user_id", userID.String()).Msg("User updated")
	WriteResponse(w, http.StatusOK, models.UserResponse{User: *user})
}

// DeleteUserService removes a user. Admins cannot delete themselves.
func DeleteUserService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	_, callerID, ok := requestClaims(w, r)
	if !ok {
		return
	}
	userID, ok := uuidVar(w, r, "user-id")
	if !ok {
		return
	}
	if userID == callerID {
		WriteError(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := svc.DB.DeleteUser(r.Context(), userID); err != nil {
		writeStoreError(w, logger, err, "User not found", "User is still referenced")
		return
	}

	logger.Info().Str("user_id", userID.String()).Msg("User deleted")
	WriteResponse(w, http.StatusNoContent, nil)
}

// GetUserClientsService lists a user's assigned clients to themselves or an admin.
func GetUserClientsService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := selfOrAdmin(w, r)
	if !ok {
		return
	}

	clients, err := svc.DB.ListUserClients(r.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve user clients")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteResponse(w, http.StatusOK, models.ClientsResponse{Clients: clients})
}

// AssignClientService assigns a client to a user. Admin only.
func AssignClientService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := uuidVar(w, r, "user-id")
	if !ok {
		return
	}

	var req models.AssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(req.ClientID) == "" {
		WriteError(w, http.StatusBadRequest, "Client ID is required")
		return
	}
	clientID, err := uuid.Parse(strings.TrimSpace(req.ClientID))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	assignment, err := svc.DB.AssignClient(r.Context(), userID, clientID)
	if err != nil {
		writeStoreError(w, logger, err, "User or client not found", "Client is already assigned to this user")
		return
	}

	logger.Info().Str("user_id", userID.String()).Str("client_id", clientID.String()).Msg("Client assigned")
	WriteResponse(w, http.StatusCreated, models.AssignmentResponse{Assignment: *assignment})
}

// UnassignClientService removes a client from a user. Admin only.
func UnassignClientService(svc *Service, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	userID, ok := uuidVar(w, r, "user-id")
	if !ok {
		return
	}
	clientID, ok := uuidVar(w, r, "client-id")
	if !ok {
		return
	}

	if err := svc.DB.UnassignClient(r.Context(), userID, clientID); err != nil {
		writeStoreError(w, logger, err, "Assignment not found", "Assignment conflict")
		return
	}

	logger.Info().Str("user_id", userID.String()).Str("client_id", clientID.String()).Msg("Client unassigned")
	WriteResponse(w, http.StatusNoContent, nil)
}
