package cameraservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lithammer/shortuuid/v3"

	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/lib/rtsp"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
	"github.com/zanzhit/camera_dashboard/internal/registry"
)

const (
	placeholderThumbnail = "/placeholder.svg?height=180&width=320"
	neverActive          = "Never"
)

type CameraService struct {
	log         *slog.Logger
	cameraSaver CameraSaver
	registry    Registry
	streams     Streams
	loader      Loader
	prober      Prober
}

type CameraSaver interface {
	Save(ctx context.Context, cam models.Camera) (models.Camera, error)
}

type Registry interface {
	Add(cam models.Camera) error
	Remove(id string) bool
	Cameras() []models.Camera
	Camera(id string) (models.Camera, bool)
	Frame(id string) (registry.Frame, bool)
	Loading() bool
}

type Streams interface {
	Start(cam models.Camera)
	Stop(cameraID string) bool
}

type Loader interface {
	Load(ctx context.Context) []models.Camera
}

type Prober interface {
	Available(rtspURL string) (bool, error)
}

// New builds the camera service. prober may be nil, in which case new
// cameras are assumed reachable.
func New(
	log *slog.Logger,
	cameraSaver CameraSaver,
	registry Registry,
	streams Streams,
	loader Loader,
	prober Prober,
) *CameraService {
	return &CameraService{
		log:         log,
		cameraSaver: cameraSaver,
		registry:    registry,
		streams:     streams,
		loader:      loader,
		prober:      prober,
	}
}

func (s *CameraService) Cameras() []models.Camera {
	return s.registry.Cameras()
}

func (s *CameraService) Loading() bool {
	return s.registry.Loading()
}

func (s *CameraService) Create(ctx context.Context, req models.NewCamera) (models.Camera, error) {
	const op = "service.cameras.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.String("ip_address", req.IPAddress),
	)

	log.Info("creating camera")

	cam := models.Camera{
		ID:         shortuuid.New(),
		Name:       req.Name,
		Location:   req.Location,
		Status:     s.probe(log, req.IPAddress, req.Port),
		Thumbnail:  placeholderThumbnail,
		LastActive: neverActive,
		IPAddress:  req.IPAddress,
		Port:       req.Port,
		Username:   req.Username,
		Password:   req.Password,
		StreamURL:  rtsp.Address(req.IPAddress, req.Port),
	}

	// The registry rejects duplicates before anything is persisted.
	if err := s.registry.Add(cam); err != nil {
		log.Error("failed to add camera to registry", sl.Err(err))

		return models.Camera{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.cameraSaver.Save(ctx, cam)
	if err != nil {
		log.Error("failed to save camera", sl.Err(err))

		s.registry.Remove(cam.ID)

		return models.Camera{}, fmt.Errorf("%s: %w", op, err)
	}
	cam = saved

	if cam.Status.Streaming() {
		s.streams.Start(cam)
	}

	log.Info("camera created", slog.String("camera_id", cam.ID), slog.String("status", string(cam.Status)))

	return cam, nil
}

func (s *CameraService) probe(log *slog.Logger, ip, port string) models.Status {
	if s.prober == nil {
		return models.StatusOnline
	}

	ok, err := s.prober.Available(rtsp.Address(ip, port))
	if err != nil || !ok {
		log.Warn("camera did not answer rtsp probe", sl.Err(err))

		return models.StatusOffline
	}

	return models.StatusOnline
}

func (s *CameraService) Connect(cameraID string) error {
	const op = "service.cameras.Connect"

	cam, ok := s.registry.Camera(cameraID)
	if !ok {
		return fmt.Errorf("%s: %w", op, errs.ErrCameraNotFound)
	}

	s.log.Info("connecting camera stream", slog.String("op", op), slog.String("camera_id", cameraID))

	s.streams.Start(cam)

	return nil
}

func (s *CameraService) Disconnect(cameraID string) error {
	const op = "service.cameras.Disconnect"

	if _, ok := s.registry.Camera(cameraID); !ok {
		return fmt.Errorf("%s: %w", op, errs.ErrCameraNotFound)
	}

	if !s.streams.Stop(cameraID) {
		s.log.Debug("camera had no open stream", slog.String("op", op), slog.String("camera_id", cameraID))
	}

	return nil
}

func (s *CameraService) Frame(cameraID string) (registry.Frame, error) {
	const op = "service.cameras.Frame"

	if _, ok := s.registry.Camera(cameraID); !ok {
		return registry.Frame{}, fmt.Errorf("%s: %w", op, errs.ErrCameraNotFound)
	}

	frame, ok := s.registry.Frame(cameraID)
	if !ok {
		return registry.Frame{}, fmt.Errorf("%s: %w", op, errs.ErrNoFrame)
	}

	return frame, nil
}

func (s *CameraService) Reload(ctx context.Context) []models.Camera {
	return s.loader.Load(ctx)
}
