package detectionservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zanzhit/camera_dashboard/internal/detections"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

const defaultLimit = 100

type DetectionService struct {
	log      *slog.Logger
	provider DetectionProvider
	limit    int
}

type DetectionProvider interface {
	Detections(ctx context.Context, limit int) ([]models.DetectedError, error)
}

func New(log *slog.Logger, provider DetectionProvider) *DetectionService {
	return &DetectionService{
		log:      log,
		provider: provider,
		limit:    defaultLimit,
	}
}

// Errors returns the detections matching query. With inFrame set only the
// ones located inside the reference frame are kept.
func (s *DetectionService) Errors(ctx context.Context, query string, inFrame bool) ([]models.DetectedError, error) {
	const op = "service.detections.Errors"

	log := s.log.With(
		slog.String("op", op),
		slog.String("query", query),
	)

	all, err := s.provider.Detections(ctx, s.limit)
	if err != nil {
		log.Error("failed to get detections", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	found := detections.Search(all, query)
	if inFrame {
		found = detections.ErrorsInFrame(found)
	}

	return found, nil
}

// Images returns the captured images that fall inside the reference frame.
func (s *DetectionService) Images(ctx context.Context) ([]models.CapturedImage, error) {
	const op = "service.detections.Images"

	all, err := s.provider.Detections(ctx, s.limit)
	if err != nil {
		s.log.Error("failed to get detections", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return detections.ImagesInFrame(detections.Images(all)), nil
}
