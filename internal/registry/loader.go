package registry

import (
	"context"
	"log/slog"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

type CameraSource interface {
	Cameras(ctx context.Context) ([]models.Camera, error)
}

type StreamStarter interface {
	Start(cam models.Camera)
	Stop(cameraID string) bool
	Active() []string
}

type Loader struct {
	log      *slog.Logger
	registry *Registry
	source   CameraSource
	starter  StreamStarter
	fallback []models.Camera
}

func NewLoader(log *slog.Logger, registry *Registry, source CameraSource, starter StreamStarter) *Loader {
	return &Loader{
		log:      log,
		registry: registry,
		source:   source,
		starter:  starter,
		fallback: Fallback(),
	}
}

// Load fills the registry from the camera source and starts a stream for
// every online or recording camera. When the source fails the built-in
// fallback list is used instead and no stream is started. Streams of cameras
// that are no longer in the registry are stopped either way.
func (l *Loader) Load(ctx context.Context) []models.Camera {
	const op = "registry.Loader.Load"

	log := l.log.With(
		slog.String("op", op),
	)

	l.registry.SetLoading(true)
	defer l.registry.SetLoading(false)

	log.Info("loading camera data")

	cams, err := l.source.Cameras(ctx)
	if err != nil {
		log.Error("failed to load cameras, using fallback list", sl.Err(err))

		kept := l.registry.Replace(l.fallback)
		l.stopDropped(log, kept)

		return kept
	}

	kept := l.registry.Replace(cams)
	l.stopDropped(log, kept)

	log.Info("cameras loaded", slog.Int("count", len(kept)))

	for _, cam := range kept {
		if cam.Status.Streaming() {
			l.starter.Start(cam)
		}
	}

	return kept
}

func (l *Loader) stopDropped(log *slog.Logger, kept []models.Camera) {
	known := make(map[string]struct{}, len(kept))
	for _, cam := range kept {
		known[cam.ID] = struct{}{}
	}

	for _, id := range l.starter.Active() {
		if _, ok := known[id]; ok {
			continue
		}

		if l.starter.Stop(id) {
			log.Info("stopped stream of removed camera", slog.String("camera_id", id))
		}
	}
}

const placeholderThumbnail = "/placeholder.svg?height=180&width=320"

// Fallback is the camera list shown when no source answers.
func Fallback() []models.Camera {
	return []models.Camera{
		{ID: "1", Name: "Front Entrance", Location: "Main Building", Status: models.StatusOnline, Thumbnail: placeholderThumbnail, Resolution: "1080p", LastActive: "2 min ago", IPAddress: "192.168.1.100", Port: "554", Username: "admin"},
		{ID: "2", Name: "Parking Lot A", Location: "North Side", Status: models.StatusRecording, Thumbnail: placeholderThumbnail, Resolution: "4K", LastActive: models.LiveLabel, IPAddress: "192.168.1.101", Port: "554", Username: "admin"},
		{ID: "3", Name: "Reception Area", Location: "Lobby", Status: models.StatusOnline, Thumbnail: placeholderThumbnail, Resolution: "1080p", LastActive: "1 min ago", IPAddress: "192.168.1.102", Port: "554", Username: "admin"},
		{ID: "4", Name: "Server Room", Location: "Basement", Status: models.StatusOffline, Thumbnail: placeholderThumbnail, Resolution: "720p", LastActive: "1 hour ago", IPAddress: "192.168.1.103", Port: "554", Username: "admin"},
		{ID: "5", Name: "Loading Dock", Location: "Warehouse", Status: models.StatusOnline, Thumbnail: placeholderThumbnail, Resolution: "1080p", LastActive: "30 sec ago", IPAddress: "192.168.1.104", Port: "554", Username: "admin"},
		{ID: "6", Name: "Conference Room B", Location: "2nd Floor", Status: models.StatusRecording, Thumbnail: placeholderThumbnail, Resolution: "4K", LastActive: models.LiveLabel, IPAddress: "192.168.1.105", Port: "554", Username: "admin"},
	}
}
