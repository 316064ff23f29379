package handlers

import (
	"net/http"

	services "github.com/usario/creators-services/api/services"
)

// @Summary Sign up
// @Description Register a team (va) or client user. Admin users can only be created by an admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SignupRequest true "New user"
// @Success 201 {object} models.SignupResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/signup [post]
func Signup(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.SignupService)
}

// @Summary Sign in
// @Description Exchange email and password for an access and refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SigninRequest true "Credentials"
// @Success 200 {object} models.SigninResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/signin [post]
func Signin(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.SigninService)
}

// @Summary Refresh a session
// @Description Rotate a refresh token. The presented refresh token cannot be used again.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RefreshRequest true "Refresh token"
// @Success 200 {object} models.SigninResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/refresh [post]
func Refresh(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.RefreshService)
}

// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /auth/signout [post]
func Signout(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.SignoutService)
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /auth/user [get]
func CurrentUser(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.CurrentUserService)
}

// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} models.TestResponse
// @Router /test [get]
func Test(svc *services.Service) http.HandlerFunc {
	return wrap(svc, services.TestService)
}
