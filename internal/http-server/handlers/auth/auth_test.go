package authhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

type stubUser struct {
	registerErr error
	loginErr    error
	logoutErr   error
	loggedOut   string
}

func (u *stubUser) Login(username, password string) (string, error) {
	return "token-for-" + username, u.loginErr
}

func (u *stubUser) RegisterNewUser(username, email, password string) (int, error) {
	return 5, u.registerErr
}

func (u *stubUser) Logout(_ context.Context, token string) error {
	u.loggedOut = token
	return u.logoutErr
}

func do(h http.HandlerFunc, body string, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set("Authorization", header)
	}

	rec := httptest.NewRecorder()
	h(rec, req)

	return rec
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "ok", body: `{"username":"op","email":"op@example.com","password":"hunter22"}`, wantCode: http.StatusCreated, wantBody: `{"id":5}`},
		{name: "empty body", body: ``, wantCode: http.StatusBadRequest, wantBody: "empty request"},
		{name: "bad email", body: `{"username":"op","email":"nope","password":"hunter22"}`, wantCode: http.StatusBadRequest, wantBody: "not a valid email"},
		{name: "short password", body: `{"username":"op","email":"op@example.com","password":"123"}`, wantCode: http.StatusBadRequest, wantBody: "too short"},
		{name: "exists", body: `{"username":"op","email":"op@example.com","password":"hunter22"}`, err: errs.ErrUserExists, wantCode: http.StatusConflict, wantBody: "already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(sl.Discard(), &stubUser{registerErr: tt.err})

			rec := do(h.RegisterNewUser, tt.body, "")

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestLogin(t *testing.T) {
	h := New(sl.Discard(), &stubUser{})

	rec := do(h.Login, `{"username":"op","password":"hunter22"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"token-for-op"}`, rec.Body.String())

	h = New(sl.Discard(), &stubUser{loginErr: errs.ErrInvalidCredentials})

	rec = do(h.Login, `{"username":"op","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h.Login, `{"username":"op"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password is a required field")
}

func TestLogout(t *testing.T) {
	user := &stubUser{}
	h := New(sl.Discard(), user)

	rec := do(h.Logout, "", "Bearer abc")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", user.loggedOut)

	rec = do(h.Logout, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	h = New(sl.Discard(), &stubUser{logoutErr: errs.ErrInvalidToken})
	rec = do(h.Logout, "", "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
