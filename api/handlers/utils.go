package handlers

import (
	"net/http"

	services "github.com/usario/creators-services/api/services"
)

type serviceFunc func(svc *services.Service, w http.ResponseWriter, r *http.Request)

// wrap binds a service to the shared dependencies.
func wrap(svc *services.Service, fn serviceFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(svc, w, r)
	}
}
