package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/citaplan/scheduling-service/internal/api/handlers"
)

// Role values accepted by the gateway.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

const (
	msgMissingIdentity = "cabeceras de identidad ausentes o inválidas"
	msgStaffOnly       = "operación reservada al personal de la empresa"
)

type contextKey string

const (
	userIDKey contextKey = "auth.userID"
	roleKey   contextKey = "auth.role"
)

// Logger is the logging surface the middleware needs.
type Logger interface {
	Warn(format string, v ...interface{})
}

// Identity extracts the gateway-injected identity headers and stores them in
// the request context. Requests without a valid identity are rejected;
// public routes must not be mounted behind it.
func Identity(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("auth: %s %s without a valid X-User-ID", r.Method, r.URL.Path)
				handlers.RespondError(w, http.StatusUnauthorized, msgMissingIdentity)
				return
			}

			role := r.Header.Get("X-User-Role")
			if role != RoleAdmin && role != RoleStaff {
				logger.Warn("auth: %s %s with unknown role %q", r.Method, r.URL.Path, role)
				handlers.RespondError(w, http.StatusUnauthorized, msgMissingIdentity)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff rejects identities that are neither staff nor admin. Mount it
// after Identity.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := Role(r.Context())
		if role != RoleAdmin && role != RoleStaff {
			handlers.RespondForbidden(w, msgStaffOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated user id, 0 when absent.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// Role returns the authenticated role, empty when absent.
func Role(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}
