package errs

import "errors"

var (
	ErrUserType           = errors.New("wrong user type")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidToken       = errors.New("invalid token")

	ErrCameraAlreadyExists = errors.New("camera already exists")
	ErrCameraNotFound      = errors.New("camera not found")

	ErrNoFrame = errors.New("no frame received yet")

	ErrUpstream = errors.New("upstream request failed")
)
