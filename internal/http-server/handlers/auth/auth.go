package authhandler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/http-server/handlers"
	authmiddleware "github.com/zanzhit/camera_dashboard/internal/http-server/middleware/auth"
	"github.com/zanzhit/camera_dashboard/internal/lib/api/response"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthHandler struct {
	log  *slog.Logger
	user User
}

type User interface {
	Login(username, password string) (string, error)
	RegisterNewUser(username, email, password string) (int, error)
	Logout(ctx context.Context, token string) error
}

func New(
	log *slog.Logger,
	user User,
) *AuthHandler {
	return &AuthHandler{
		log:  log,
		user: user,
	}
}

// decode reads and validates the request body. It writes the error response
// itself and reports false when the handler should stop.
func decode(log *slog.Logger, w http.ResponseWriter, r *http.Request, req any) bool {
	err := render.DecodeJSON(r.Body, req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")

			handlers.Error(w, r, http.StatusBadRequest, response.Error("empty request", ""))

			return false
		}

		log.Error("failed to decode request body", sl.Err(err))

		handlers.Error(w, r, http.StatusBadRequest, response.Error("failed to decode request", middleware.GetReqID(r.Context())))

		return false
	}

	if err := validator.New().Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		if !errors.As(err, &validateErr) {
			handlers.Error(w, r, http.StatusBadRequest, response.Error("invalid request", ""))

			return false
		}

		log.Error("invalid request", sl.Err(err))

		handlers.Error(w, r, http.StatusBadRequest, response.ValidationError(validateErr))

		return false
	}

	return true
}

func (h *AuthHandler) RegisterNewUser(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req RegisterRequest
	if !decode(log, w, r, &req) {
		return
	}

	log.Info("request body decoded", slog.String("username", req.Username))

	id, err := h.user.RegisterNewUser(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrUserExists) {
			handlers.Error(w, r, http.StatusConflict, response.Error("user already exists", ""))

			return
		}

		log.Error("failed to register new user", sl.Err(err))

		handlers.Error(w, r, http.StatusInternalServerError, response.Error("failed to register new user", middleware.GetReqID(r.Context())))

		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]int{"id": id})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req LoginRequest
	if !decode(log, w, r, &req) {
		return
	}

	log.Info("request body decoded", slog.String("username", req.Username))

	token, err := h.user.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			handlers.Error(w, r, http.StatusUnauthorized, response.Error("invalid credentials", ""))

			return
		}

		log.Error("failed to login", sl.Err(err))

		handlers.Error(w, r, http.StatusInternalServerError, response.Error("failed to login", middleware.GetReqID(r.Context())))

		return
	}

	render.JSON(w, r, map[string]string{"token": token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := authmiddleware.BearerToken(r)
	if !ok {
		handlers.Error(w, r, http.StatusUnauthorized, response.Error("unauthorized", middleware.GetReqID(r.Context())))

		return
	}

	if err := h.user.Logout(r.Context(), token); err != nil {
		if errors.Is(err, errs.ErrInvalidToken) {
			handlers.Error(w, r, http.StatusUnauthorized, response.Error("invalid token", ""))

			return
		}

		log.Error("failed to logout", sl.Err(err))

		handlers.Error(w, r, http.StatusInternalServerError, response.Error("failed to logout", middleware.GetReqID(r.Context())))

		return
	}

	w.WriteHeader(http.StatusOK)
}
