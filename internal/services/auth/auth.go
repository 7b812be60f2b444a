package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zanzhit/camera_dashboard/internal/domain/constants"
	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	jwtlib "github.com/zanzhit/camera_dashboard/internal/lib/jwt"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

type AuthService struct {
	secret       string
	tokenTTL     time.Duration
	log          *slog.Logger
	userSaver    UserSaver
	userProvider UserProvider
	sessions     Sessions
}

type UserSaver interface {
	SaveUser(username, email, userType string, passHash []byte) (int, error)
}

type UserProvider interface {
	User(username string) (models.User, error)
}

type Sessions interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	Revoked(ctx context.Context, tokenID string) (bool, error)
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	sessions Sessions,
	tokenTTL time.Duration,
	secret string,
) *AuthService {
	return &AuthService{
		secret:       secret,
		tokenTTL:     tokenTTL,
		log:          log,
		userSaver:    userSaver,
		userProvider: userProvider,
		sessions:     sessions,
	}
}

func (s *AuthService) RegisterNewUser(username, email, password string) (int, error) {
	return s.register(username, email, password, constants.User)
}

func (s *AuthService) register(username, email, password, userType string) (int, error) {
	const op = "service.auth.Register"

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	if userType != constants.User && userType != constants.Admin {
		log.Warn("invalid user_type", sl.Err(errs.ErrUserType))

		return 0, fmt.Errorf("%s: %w", op, errs.ErrUserType)
	}

	log.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.userSaver.SaveUser(username, email, userType, passHash)
	if err != nil {
		log.Error("failed to save user", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *AuthService) Login(username, password string) (string, error) {
	const op = "service.auth.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	log.Info("attempting to login user")

	user, err := s.userProvider.User(username)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			log.Warn("user not found", sl.Err(err))

			return "", fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
	}

	token, err := jwtlib.NewToken(user, s.tokenTTL, s.secret)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")

	return token, nil
}

// Authenticate parses a bearer token and rejects it once it was logged out.
func (s *AuthService) Authenticate(ctx context.Context, token string) (jwtlib.Claims, error) {
	const op = "service.auth.Authenticate"

	claims, err := jwtlib.Parse(token, s.secret)
	if err != nil {
		return jwtlib.Claims{}, fmt.Errorf("%s: %w", op, err)
	}
	if claims.UserType == constants.Service {
		return jwtlib.Claims{}, fmt.Errorf("%s: %w", op, errs.ErrInvalidToken)
	}

	revoked, err := s.sessions.Revoked(ctx, claims.ID)
	if err != nil {
		return jwtlib.Claims{}, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return jwtlib.Claims{}, fmt.Errorf("%s: %w", op, errs.ErrTokenRevoked)
	}

	return claims, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	const op = "service.auth.Logout"

	log := s.log.With(
		slog.String("op", op),
	)

	claims, err := jwtlib.Parse(token, s.secret)
	if err != nil {
		log.Warn("logout with invalid token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		log.Error("failed to revoke token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged out", slog.String("username", claims.Username))

	return nil
}

// CreateInitialAdmin registers the admin from ADMIN_USERNAME, ADMIN_EMAIL and
// ADMIN_PASSWORD when they are set and the account does not exist yet.
func (s *AuthService) CreateInitialAdmin() error {
	const op = "service.auth.CreateInitialAdmin"

	log := s.log.With(
		slog.String("op", op),
	)

	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if username == "" || password == "" {
		log.Info("admin credentials not set, skipping")

		return nil
	}

	_, err := s.userProvider.User(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrInvalidCredentials) {
		return fmt.Errorf("%s: failed to check admin existence: %w", op, err)
	}

	if _, err := s.register(username, email, password, constants.Admin); err != nil {
		log.Error("failed to create admin", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin created successfully")

	return nil
}
