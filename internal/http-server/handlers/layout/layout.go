package layouthandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/zanzhit/camera_dashboard/internal/http-server/handlers"
	"github.com/zanzhit/camera_dashboard/internal/layout"
	"github.com/zanzhit/camera_dashboard/internal/lib/api/response"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

type Request struct {
	Width      float64 `validate:"gte=0"`
	Height     float64 `validate:"gte=0"`
	Resolution string
}

type LayoutHandler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *LayoutHandler {
	return &LayoutHandler{log: log}
}

func (h *LayoutHandler) Layout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.layout.Layout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req, err := parse(r)
	if err != nil {
		log.Warn("invalid query", sl.Err(err))

		handlers.Error(w, r, http.StatusBadRequest, response.Error("width and height must be numbers", ""))

		return
	}

	if err := validator.New().Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		if errors.As(err, &validateErr) {
			handlers.Error(w, r, http.StatusBadRequest, response.ValidationError(validateErr))

			return
		}

		handlers.Error(w, r, http.StatusBadRequest, response.Error("invalid request", ""))

		return
	}

	render.JSON(w, r, layout.Compute(req.Resolution, layout.Size{Width: req.Width, Height: req.Height}))
}

func (h *LayoutHandler) Presets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, layout.Presets())
}

func parse(r *http.Request) (Request, error) {
	q := r.URL.Query()

	req := Request{Resolution: q.Get("resolution")}

	var err error
	if v := q.Get("width"); v != "" {
		if req.Width, err = strconv.ParseFloat(v, 64); err != nil {
			return Request{}, err
		}
	}
	if v := q.Get("height"); v != "" {
		if req.Height, err = strconv.ParseFloat(v, 64); err != nil {
			return Request{}, err
		}
	}

	return req, nil
}
