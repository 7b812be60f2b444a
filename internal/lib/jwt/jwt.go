package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zanzhit/camera_dashboard/internal/domain/constants"
	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
)

// Audiences keep user sessions and gateway handshakes apart: a token minted
// for one is rejected by the other.
const (
	AudienceAPI     = "camera-dashboard-api"
	AudienceGateway = "camera-stream-gateway"
)

type Claims struct {
	UID      int    `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

func NewToken(user models.User, duration time.Duration, secret string) (string, error) {
	return sign(claimsFor(user, AudienceAPI, duration), secret)
}

func claimsFor(user models.User, audience string, duration time.Duration) Claims {
	now := time.Now()

	return Claims{
		UID:      user.Id,
		Username: user.Username,
		Email:    user.Email,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
}

func sign(claims Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Parse validates a user session token. Tokens without the API audience,
// gateway handshake tokens included, are rejected.
func Parse(tokenString, secret string) (Claims, error) {
	return parse(tokenString, secret, AudienceAPI)
}

func parse(tokenString, secret, audience string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}

		return []byte(secret), nil
	}, jwt.WithAudience(audience), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, errors.Join(errs.ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, errs.ErrInvalidToken
	}

	return claims, nil
}

// ServiceTokens mints the token the dashboard presents to the stream
// gateway. A fresh token is signed for every handshake.
type ServiceTokens struct {
	Subject string
	TTL     time.Duration
	Secret  string
}

func (s ServiceTokens) Token() (string, error) {
	user := models.User{Username: s.Subject, UserType: constants.Service}

	return sign(claimsFor(user, AudienceGateway, s.TTL), s.Secret)
}
