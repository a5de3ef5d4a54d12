package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hrms/internal/auth"
	"hrms/internal/handler"
	"hrms/internal/model"
	"hrms/internal/router"
	"hrms/internal/service"
)

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *model.PublicUser, error) {
	args := m.Called(ctx, email, password)
	var user *model.PublicUser
	if args.Get(2) != nil {
		user = args.Get(2).(*model.PublicUser)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func newAuthServer(svc service.AuthService, claims *auth.Claims) *echo.Echo {
	e := echo.New()
	e.Validator = router.NewValidator()

	h := handler.NewAuthHandler(svc)
	e.POST("/api/auth/login", h.Login)
	e.POST("/api/auth/refresh", h.Refresh)
	e.POST("/api/auth/logout", h.Logout)
	e.GET("/api/me", h.Me, withClaims(claims))
	return e
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*MockAuthService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"email":"alice@co.com","password":"longenough1"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice@co.com", "longenough1").
					Return("access", "refresh", &model.PublicUser{ID: 1, Email: "alice@co.com", Role: model.RoleEmployee}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			body: `{"email":"alice@co.com","password":"nope"}`,
			setup: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "alice@co.com", "nope").
					Return("", "", nil, service.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:       "missing password",
			body:       `{"email":"alice@co.com"}`,
			setup:      func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setup(svc)

			rec := serve(newAuthServer(svc, nil), http.MethodPost, "/api/auth/login", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			} else {
				assert.JSONEq(t, `{"access_token":"access","refresh_token":"refresh","user":{"id":1,"name":"","email":"alice@co.com","role":"employee"}}`,
					rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("RefreshToken", mock.Anything, "good").Return("new-access", nil)
	svc.On("RefreshToken", mock.Anything, "bad").Return("", service.ErrInvalidRefreshToken)
	e := newAuthServer(svc, nil)

	rec := serve(e, http.MethodPost, "/api/auth/refresh", `{"refresh_token":"good"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"new-access"}`, rec.Body.String())

	rec = serve(e, http.MethodPost, "/api/auth/refresh", `{"refresh_token":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", decodeError(t, rec).Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Logout", mock.Anything, "rt").Return(nil)

	rec := serve(newAuthServer(svc, nil), http.MethodPost, "/api/auth/logout", `{"refresh_token":"rt"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"logged out successfully"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	e := newAuthServer(new(MockAuthService), &auth.Claims{UserID: 3, Email: "hr@co.com", Role: model.RoleHR})

	rec := serve(e, http.MethodGet, "/api/me", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":3,"email":"hr@co.com","role":"hr"}`, rec.Body.String())

	rec = serve(newAuthServer(new(MockAuthService), nil), http.MethodGet, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
