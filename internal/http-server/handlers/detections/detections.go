package detectionshandler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/http-server/handlers"
	"github.com/zanzhit/camera_dashboard/internal/lib/api/response"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

type DetectionHandler struct {
	log       *slog.Logger
	detection Detection
}

type Detection interface {
	Errors(ctx context.Context, query string, inFrame bool) ([]models.DetectedError, error)
	Images(ctx context.Context) ([]models.CapturedImage, error)
}

func New(log *slog.Logger, detection Detection) *DetectionHandler {
	return &DetectionHandler{
		log:       log,
		detection: detection,
	}
}

func (h *DetectionHandler) Errors(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.detections.Errors"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()

	inFrame := false
	if v := q.Get("in_frame"); v != "" {
		var err error
		if inFrame, err = strconv.ParseBool(v); err != nil {
			handlers.Error(w, r, http.StatusBadRequest, response.Error("in_frame must be a boolean", ""))

			return
		}
	}

	found, err := h.detection.Errors(r.Context(), q.Get("q"), inFrame)
	if err != nil {
		log.Error("failed to get detections", sl.Err(err))

		handlers.Error(w, r, http.StatusInternalServerError, response.Error("failed to get detections", middleware.GetReqID(r.Context())))

		return
	}

	render.JSON(w, r, found)
}

func (h *DetectionHandler) Images(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.detections.Images"

	images, err := h.detection.Images(r.Context())
	if err != nil {
		h.log.Error("failed to get captured images", slog.String("op", op), sl.Err(err))

		handlers.Error(w, r, http.StatusInternalServerError, response.Error("failed to get captured images", middleware.GetReqID(r.Context())))

		return
	}

	render.JSON(w, r, images)
}
