package authstorage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/storage/postgres"
)

type AuthStorage struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *AuthStorage {
	return &AuthStorage{db: db}
}

func (s *AuthStorage) SaveUser(username, email, userType string, passHash []byte) (int, error) {
	const op = "storage.postgres.auth.SaveUser"

	var id int
	query := fmt.Sprintf("INSERT INTO %s (username, email, user_type, password_hash) VALUES ($1, $2, $3, $4) RETURNING id", postgres.UsersTable)

	if err := s.db.QueryRow(query, username, email, userType, passHash).Scan(&id); err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, errs.ErrUserExists)
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *AuthStorage) User(username string) (models.User, error) {
	const op = "storage.postgres.auth.User"

	var user models.User
	query := fmt.Sprintf("SELECT id, username, email, user_type, password_hash FROM %s WHERE username = $1", postgres.UsersTable)

	if err := s.db.Get(&user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
