package camerashandler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/http-server/handlers"
	"github.com/zanzhit/camera_dashboard/internal/lib/api/response"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
	"github.com/zanzhit/camera_dashboard/internal/registry"
)

const LoadingHeader = "X-Loading"

type CameraHandler struct {
	log    *slog.Logger
	camera Camera
}

type Camera interface {
	Cameras() []models.Camera
	Loading() bool
	Create(ctx context.Context, req models.NewCamera) (models.Camera, error)
	Connect(cameraID string) error
	Disconnect(cameraID string) error
	Frame(cameraID string) (registry.Frame, error)
	Reload(ctx context.Context) []models.Camera
}

func New(
	log *slog.Logger,
	camera Camera,
) *CameraHandler {
	return &CameraHandler{
		log:    log,
		camera: camera,
	}
}

func (h *CameraHandler) Cameras(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(LoadingHeader, strconv.FormatBool(h.camera.Loading()))

	render.JSON(w, r, h.camera.Cameras())
}

func (h *CameraHandler) SaveCamera(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cameras.SaveCamera"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.NewCamera
	err := render.DecodeJSON(r.Body, &req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")

			handlers.Error(w, r, http.StatusBadRequest, response.Error("empty request", ""))

			return
		}

		log.Error("failed to decode request body", sl.Err(err))

		handlers.Error(w, r, http.StatusBadRequest, response.Error("failed to decode request", middleware.GetReqID(r.Context())))

		return
	}

	log.Info("request body decoded", slog.String("name", req.Name), slog.String("ip_address", req.IPAddress))

	if err := validator.New().Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)

		log.Error("invalid request", sl.Err(err))

		handlers.Error(w, r, http.StatusBadRequest, response.ValidationError(validateErr))

		return
	}

	cam, err := h.camera.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrCameraAlreadyExists) {
			log.Error("camera already exists", sl.Err(err))

			handlers.Error(w, r, http.StatusConflict, response.Error("camera already exists", ""))

			return
		}

		log.Error("failed to save camera", sl.Err(err))

		handlers.Error(w, r, http.StatusInternalServerError, response.Error("failed to save new camera", middleware.GetReqID(r.Context())))

		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, cam)
}

func (h *CameraHandler) Connect(w http.ResponseWriter, r *http.Request) {
	h.streamAction(w, r, "handlers.cameras.Connect", h.camera.Connect)
}

func (h *CameraHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.streamAction(w, r, "handlers.cameras.Disconnect", h.camera.Disconnect)
}

func (h *CameraHandler) streamAction(w http.ResponseWriter, r *http.Request, op string, action func(string) error) {
	cameraID := chi.URLParam(r, "id")

	log := h.log.With(
		slog.String("op", op),
		slog.String("camera_id", cameraID),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := action(cameraID); err != nil {
		if errors.Is(err, errs.ErrCameraNotFound) {
			handlers.Error(w, r, http.StatusNotFound, response.Error("camera not found", ""))

			return
		}

		log.Error("stream action failed", sl.Err(err))

		handlers.Error(w, r, http.StatusInternalServerError, response.Error("stream action failed", middleware.GetReqID(r.Context())))

		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *CameraHandler) Frame(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cameras.Frame"

	cameraID := chi.URLParam(r, "id")

	frame, err := h.camera.Frame(cameraID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrCameraNotFound):
			handlers.Error(w, r, http.StatusNotFound, response.Error("camera not found", ""))
		case errors.Is(err, errs.ErrNoFrame):
			handlers.Error(w, r, http.StatusNotFound, response.Error("no frame received yet", ""))
		default:
			h.log.Error("failed to get frame", slog.String("op", op), sl.Err(err))

			handlers.Error(w, r, http.StatusInternalServerError, response.Error("failed to get frame", middleware.GetReqID(r.Context())))
		}

		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Last-Modified", frame.ReceivedAt.UTC().Format(http.TimeFormat))
	w.Write(frame.Data)
}

func (h *CameraHandler) Reload(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cameras.Reload"

	h.log.Info("reloading cameras", slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))

	render.JSON(w, r, h.camera.Reload(r.Context()))
}
