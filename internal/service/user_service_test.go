package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "hrms/internal/errors"
	"hrms/internal/model"
)

func TestUserService_GetUser(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockUserRepository)
		want      *model.PublicUser
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(3)).Return(&model.User{
					ID: 3, Name: "Kim", Email: "kim@co.com", PasswordHash: "secret", Role: model.RoleManager,
				}, nil)
			},
			want: &model.PublicUser{ID: 3, Name: "Kim", Email: "kim@co.com", Role: model.RoleManager},
		},
		{
			name: "not found",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)

			user, err := NewUserService(repo, nil).GetUser(context.Background(), 3)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, user)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_ListUsers(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("List", mock.Anything).Return([]model.User{
		{ID: 1, Name: "Admin", Email: "admin@co.com", PasswordHash: "x", Role: model.RoleAdmin},
		{ID: 2, Name: "Lee", Email: "lee@co.com", PasswordHash: "y", Role: model.RoleEmployee},
	}, nil)

	users, err := NewUserService(repo, nil).ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.PublicUser{
		{ID: 1, Name: "Admin", Email: "admin@co.com", Role: model.RoleAdmin},
		{ID: 2, Name: "Lee", Email: "lee@co.com", Role: model.RoleEmployee},
	}, users)

	failing := new(MockUserRepository)
	failing.On("List", mock.Anything).Return(nil, errors.New("connection refused"))
	_, err = NewUserService(failing, nil).ListUsers(context.Background())
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindUnexpected, apperrors.KindOf(err))
}
