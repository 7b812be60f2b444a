package detectionstorage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/storage/postgres"
)

type DetectionStorage struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *DetectionStorage {
	return &DetectionStorage{db: db}
}

type detectionRow struct {
	ID          string  `db:"detection_id"`
	DetectedAt  string  `db:"detected_at"`
	Type        string  `db:"defect_type"`
	Severity    string  `db:"severity"`
	Description string  `db:"description"`
	ImageURL    string  `db:"image_url"`
	X           float64 `db:"x"`
	Y           float64 `db:"y"`
}

// Detections returns the newest detections first, at most limit of them.
func (s *DetectionStorage) Detections(ctx context.Context, limit int) ([]models.DetectedError, error) {
	const op = "storage.postgres.detections.Detections"

	query := fmt.Sprintf(`
		SELECT d.detection_id, to_char(d.detected_at, 'YYYY-MM-DD HH24:MI:SS') AS detected_at,
			d.defect_type, d.severity, d.description, d.image_url, d.x, d.y
		FROM %s d
		ORDER BY d.detected_at DESC
		LIMIT $1`, postgres.DetectionsTable)

	var rows []detectionRow
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]models.DetectedError, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.DetectedError{
			ID:          r.ID,
			Timestamp:   r.DetectedAt,
			Type:        r.Type,
			Severity:    models.Severity(r.Severity),
			Description: r.Description,
			ImageURL:    r.ImageURL,
			Location:    models.Location{X: r.X, Y: r.Y},
		})
	}

	return out, nil
}
