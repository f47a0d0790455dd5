package middleware

import (
	"net/http"
	"pms/shared/failure"
	"pms/shared/validator"
	"pms/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var errResourceNotFound = failure.NotFound("resource not found")

// UUIDParam answers 404 when the route parameter is not a UUID, so malformed ids never reach Postgres.
func UUIDParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := chi.URLParam(r, name)

			if err := validator.ValidateVar(value, "required,uuid"); err != nil {
				log.Debug().Str("param", name).Str("value", value).Msg("rejecting malformed id")

				response.WithError(w, errResourceNotFound)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
