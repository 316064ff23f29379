package handlers

import (
	"net/http"

	services "github.com/usario/creators-services/api/services"
)

// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} models.UsersResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func GetUsers(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetUsersService)
}

// @Summary Create a user
// @Description Unlike signup, any role may be given.
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.SignupRequest true "New user"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func CreateUser(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.CreateUserService)
}

// @Summary Get a user
// @Tags users
// @Produce json
// @Param user-id path string true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{user-id} [get]
func GetUser(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetUserService)
}

// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param user-id path string true "User ID"
// @Param body body models.UserUpdate true "Fields to change"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{user-id} [put]
func UpdateUser(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.UpdateUserService)
}

// @Summary Delete a user
// @Tags users
// @Param user-id path string true "User ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{user-id} [delete]
func DeleteUser(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.DeleteUserService)
}

// @Summary List a user's clients
// @Tags users clients
// @Produce json
// @Param user-id path string true "User ID"
// @Success 200 {object} models.ClientsResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{user-id}/clients [get]
func GetUserClients(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.GetUserClientsService)
}

// @Summary Assign a client to a user
// @Tags users clients
// @Accept json
// @Produce json
// @Param user-id path string true "User ID"
// @Param body body models.AssignmentRequest true "Client to assign"
// @Success 201 {object} models.AssignmentResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{user-id}/clients [post]
func AssignClient(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.AssignClientService)
}

// @Summary Remove a client from a user
// @Tags users clients
// @Param user-id path string true "User ID"
// @Param client-id path string true "Client ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{user-id}/clients/{client-id} [delete]
func UnassignClient(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.UnassignClientService)
}
