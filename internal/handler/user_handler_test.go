package handler

import (
	"net/http"
	"testing"
	"time"

	"payroll/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	userID := uuid.New()
	creds := service.LoginUserRequest{Email: "ann@example.com", Password: "secret1"}

	t.Run("sets the token cookie", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Login", mock.Anything, creds).Return(&service.TokenResponse{
			Token: "signed-token",
			User:  service.UserResponse{ID: userID, Name: "Ann"},
		}, nil)

		w := do(t, newRouter(NewUserHandler(svc, time.Hour)), http.MethodPost, "/login", "", creds)

		assert.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, "signed-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, 3600, cookies[0].MaxAge)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Login", mock.Anything, creds).Return(nil, service.ErrInvalidCredentials)

		w := do(t, newRouter(NewUserHandler(svc, time.Hour)), http.MethodPost, "/login", "", creds)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("malformed email", func(t *testing.T) {
		svc := new(mockUserService)
		w := do(t, newRouter(NewUserHandler(svc, time.Hour)), http.MethodPost, "/login", "",
			map[string]string{"email": "ann", "password": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

func TestGetMe(t *testing.T) {
	userID := uuid.New()
	svc := new(mockUserService)
	svc.On("GetUserByID", mock.Anything, userID.String()).Return(&service.UserResponse{ID: userID, Name: "Sam"}, nil)

	w := do(t, newRouter(NewUserHandler(svc, time.Hour)), http.MethodGet, "/me", tokenFor(t, userID, "Staff"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sam", decode(t, w).Data.(map[string]interface{})["name"])
}

func TestUsersRequireReviewer(t *testing.T) {
	svc := new(mockUserService)
	svc.On("ListUsers", mock.Anything, "", 1, 20).Return([]service.UserResponse{}, int64(0), nil)
	router := newRouter(NewUserHandler(svc, time.Hour))

	w := do(t, router, http.MethodGet, "/api/users", tokenFor(t, uuid.New(), "Staff"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodGet, "/api/users", tokenFor(t, uuid.New(), "Accountant"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertNumberOfCalls(t, "ListUsers", 1)
}
