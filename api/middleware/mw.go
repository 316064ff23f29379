package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/usario/creators-services/internal/authn"
	"github.com/usario/creators-services/internal/sessions"
	"github.com/usario/creators-services/models"
)

type contextKey string
type tokenKey string

const ClaimsKey contextKey = "claims"
const TokenKey tokenKey = "token"

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (authn.Claims, error)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: msg})
}

// JWTMiddleware parses the access token and adds claims to the request
// context. Refresh tokens and revoked tokens are rejected. revoker may be nil.
func JWTMiddleware(parser TokenParser, revoker sessions.Revoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "JWTMiddleware").Logger()

				// Get the Authorization header
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					logger.Debug().Msg("authorization header missing")
					writeError(w, http.StatusUnauthorized, "Authorization header missing")
					return
				}

				// Check the Authorization header format
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token == authHeader || token == "" {
					logger.Debug().Msg("invalid token format")
					writeError(w, http.StatusUnauthorized, "Invalid token format")
					return
				}

				claims, err := parser.Parse(token)
				if err != nil {
					logger.Debug().Err(err).Msg("invalid bearer jwt token")
					writeError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}

				if claims.TokenType != authn.AccessToken {
					logger.Debug().Str("token_type", claims.TokenType).Msg("non-access token presented")
					writeError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}

				if revoker != nil {
					revoked, err := revoker.IsRevoked(r.Context(), claims.Id)
					if err != nil {
						logger.Error().Err(err).Msg("failed to check token revocation")
						writeError(w, http.StatusInternalServerError, "Internal server error")
						return
					}
					if revoked {
						logger.Debug().Str("jti", claims.Id).Msg("revoked token presented")
						writeError(w, http.StatusUnauthorized, "Invalid or expired token")
						return
					}
				}

				// Add the token and claims to the context
				ctx := context.WithValue(r.Context(), TokenKey, token)
				ctx = context.WithValue(ctx, ClaimsKey, claims)

				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// UserLookup loads the account a token was issued for.
type UserLookup interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// CurrentUser reloads the caller's account after JWTMiddleware. Tokens of
// deleted users are rejected and the claims carry the stored role, so role
// changes apply before the token expires.
func CurrentUser(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context())

				claims, ok := r.Context().Value(ClaimsKey).(authn.Claims)
				if !ok {
					writeError(w, http.StatusUnauthorized, "Invalid claims")
					return
				}
				userID, err := claims.UserID()
				if err != nil {
					writeError(w, http.StatusUnauthorized, "Invalid claims")
					return
				}

				user, err := users.GetUser(r.Context(), userID)
				if err != nil {
					logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load token user")
					writeError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				if user == nil {
					logger.Debug().Str("user_id", userID.String()).Msg("token for deleted user")
					writeError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}

				claims.Role = user.Role
				claims.Email = user.Email
				claims.FullName = user.FullName
				ctx := context.WithValue(r.Context(), ClaimsKey, claims)

				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// RequireRole only lets through requests whose claims carry one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				claims, ok := r.Context().Value(ClaimsKey).(authn.Claims)
				if !ok {
					writeError(w, http.StatusUnauthorized, "Invalid claims")
					return
				}
				for _, role := range roles {
					if claims.Role == role {
						next.ServeHTTP(w, r)
						return
					}
				}
				zerolog.Ctx(r.Context()).Debug().Str("role", claims.Role).Msg("role not permitted")
				writeError(w, http.StatusForbidden, "Access denied")
			},
		)
	}
}

// CORS answers preflight requests and sets the allow headers for the
// configured origins. A "*" entry allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				origin := r.Header.Get("Origin")
				if origin != "" && (allowAll || allowed[origin]) {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
					h.Set("Access-Control-Allow-Credentials", "true")
					h.Set("Access-Control-Expose-Headers", "Content-Disposition, X-Export-Location")
					if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
						h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
						h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
						h.Set("Access-Control-Max-Age", "600")
						w.WriteHeader(http.StatusNoContent)
						return
					}
				}
				next.ServeHTTP(w, r)
			},
		)
	}
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			// Add the logger to the context
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}
