package authmiddleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/zanzhit/camera_dashboard/internal/domain/constants"
	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/http-server/handlers"
	"github.com/zanzhit/camera_dashboard/internal/lib/api/response"
	"github.com/zanzhit/camera_dashboard/internal/lib/jwt"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (jwt.Claims, error)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return "", false
	}

	return token, true
}

func JWTAuth(log *slog.Logger, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				handlers.Error(w, r, http.StatusUnauthorized, response.Error("unauthorized", middleware.GetReqID(r.Context())))
				return
			}

			claims, err := auth.Authenticate(r.Context(), tokenString)
			if err != nil {
				if !errors.Is(err, errs.ErrInvalidToken) && !errors.Is(err, errs.ErrTokenRevoked) {
					log.Error("failed to authenticate request", sl.Err(err))
				}

				handlers.Error(w, r, http.StatusUnauthorized, response.Error("unauthorized", middleware.GetReqID(r.Context())))
				return
			}

			user := models.User{
				Id:       claims.UID,
				Username: claims.Username,
				Email:    claims.Email,
				UserType: claims.UserType,
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(UserContextKey).(models.User)
		if !ok || user.UserType != constants.Admin {
			handlers.Error(w, r, http.StatusForbidden, response.Error("forbidden", middleware.GetReqID(r.Context())))
			return
		}

		next.ServeHTTP(w, r)
	})
}
