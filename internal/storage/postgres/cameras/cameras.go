package camerastorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/storage/postgres"
)

const cameraColumns = `camera_id, name, location, status, thumbnail, resolution, last_active, ip_address, port, username, password, stream_url`

type CameraStorage struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *CameraStorage {
	return &CameraStorage{
		db: db,
	}
}

func (s *CameraStorage) Save(ctx context.Context, cam models.Camera) (models.Camera, error) {
	const op = "storage.postgres.cameras.Save"

	query := fmt.Sprintf(`INSERT INTO %s (%s)
		VALUES (:camera_id, :name, :location, :status, :thumbnail, :resolution, :last_active, :ip_address, :port, :username, :password, :stream_url)
		RETURNING %s`, postgres.CamerasTable, cameraColumns, cameraColumns)

	rows, err := s.db.NamedQueryContext(ctx, query, cam)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return models.Camera{}, fmt.Errorf("%s: %w", op, errs.ErrCameraAlreadyExists)
		}

		return models.Camera{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var saved models.Camera
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.Camera{}, fmt.Errorf("%s: %w", op, err)
		}

		return models.Camera{}, fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}

	if err := rows.StructScan(&saved); err != nil {
		return models.Camera{}, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func (s *CameraStorage) Cameras(ctx context.Context) ([]models.Camera, error) {
	const op = "storage.postgres.cameras.Cameras"

	cams := []models.Camera{}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at, camera_id`, cameraColumns, postgres.CamerasTable)

	if err := s.db.SelectContext(ctx, &cams, query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cams, nil
}

func (s *CameraStorage) Camera(ctx context.Context, id string) (models.Camera, error) {
	const op = "storage.postgres.cameras.Camera"

	var cam models.Camera
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE camera_id = $1`, cameraColumns, postgres.CamerasTable)

	if err := s.db.GetContext(ctx, &cam, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Camera{}, fmt.Errorf("%s: %w", op, errs.ErrCameraNotFound)
		}

		return models.Camera{}, fmt.Errorf("%s: %w", op, err)
	}

	return cam, nil
}
