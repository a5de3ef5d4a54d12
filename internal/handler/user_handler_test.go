package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hrms/internal/auth"
	apperrors "hrms/internal/errors"
	"hrms/internal/handler"
	"hrms/internal/model"
	"hrms/internal/service"
)

// MockUserService is a mock implementation of UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uint) (*model.PublicUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PublicUser), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PublicUser), args.Error(1)
}

func newUserServer(svc service.UserService, claims *auth.Claims) *echo.Echo {
	e := echo.New()
	h := handler.NewUserHandler(svc)
	e.GET("/api/users", h.ListUsers, withClaims(claims))
	e.GET("/api/users/:id", h.GetUser, withClaims(claims))
	return e
}

func TestUserHandler_GetUser(t *testing.T) {
	user := &model.PublicUser{ID: 4, Name: "Dana", Email: "dana@co.com", Role: model.RoleEmployee}

	tests := []struct {
		name       string
		claims     *auth.Claims
		path       string
		setup      func(*MockUserService)
		wantStatus int
	}{
		{
			name:   "self",
			claims: &auth.Claims{UserID: 4, Role: model.RoleEmployee},
			path:   "/api/users/4",
			setup: func(m *MockUserService) {
				m.On("GetUser", mock.Anything, uint(4)).Return(user, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "hr reads anyone",
			claims: &auth.Claims{UserID: 2, Role: model.RoleHR},
			path:   "/api/users/4",
			setup: func(m *MockUserService) {
				m.On("GetUser", mock.Anything, uint(4)).Return(user, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "employee reading someone else",
			claims:     &auth.Claims{UserID: 5, Role: model.RoleEmployee},
			path:       "/api/users/4",
			setup:      func(*MockUserService) {},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "missing user",
			claims: &auth.Claims{UserID: 1, Role: model.RoleAdmin},
			path:   "/api/users/4",
			setup: func(m *MockUserService) {
				m.On("GetUser", mock.Anything, uint(4)).Return(nil, apperrors.ErrUserNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed id",
			claims:     &auth.Claims{UserID: 1, Role: model.RoleAdmin},
			path:       "/api/users/abc",
			setup:      func(*MockUserService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			tt.setup(svc)

			rec := serve(newUserServer(svc, tt.claims), http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"id":4,"name":"Dana","email":"dana@co.com","role":"employee"}`, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_ListUsers(t *testing.T) {
	svc := new(MockUserService)
	svc.On("ListUsers", mock.Anything).Return([]model.PublicUser{{ID: 1, Name: "Admin", Email: "a@co.com", Role: model.RoleAdmin}}, nil)

	rec := serve(newUserServer(svc, &auth.Claims{UserID: 1, Role: model.RoleAdmin}), http.MethodGet, "/api/users", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Admin","email":"a@co.com","role":"admin"}]`, rec.Body.String())
}
