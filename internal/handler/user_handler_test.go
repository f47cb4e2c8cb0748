package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/model"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("CreateUser", mock.Anything, "John Doe", "john@example.com").Return(&model.User{
			ID:    uuid.New(),
			Name:  "John Doe",
			Email: "john@example.com",
		}, nil)

		c, rec := newTestContext(http.MethodPost, "/api/users", `{"name":"John Doe","email":"john@example.com"}`)

		h := NewUserHandler(mockSvc)
		assert.NoError(t, h.CreateUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "john@example.com")
		mockSvc.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("CreateUser", mock.Anything, "John Clone", "john@example.com").
			Return(nil, apperrors.ErrEmailExists)

		c, _ := newTestContext(http.MethodPost, "/api/users", `{"name":"John Clone","email":"john@example.com"}`)

		h := NewUserHandler(mockSvc)
		err := h.CreateUser(c)

		var he *echo.HTTPError
		assert.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing email", func(t *testing.T) {
		mockSvc := new(MockUserService)

		c, _ := newTestContext(http.MethodPost, "/api/users", `{"name":"John Doe"}`)

		h := NewUserHandler(mockSvc)
		err := h.CreateUser(c)

		var he *echo.HTTPError
		assert.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockSvc.AssertNotCalled(t, "CreateUser")
	})
}

func TestUserHandler_ListUsers(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("ListUsers", mock.Anything).Return([]model.User{
		{ID: uuid.New(), Name: "John Doe", Email: "john@example.com"},
	}, nil)

	c, rec := newTestContext(http.MethodGet, "/api/users", "")

	h := NewUserHandler(mockSvc)
	assert.NoError(t, h.ListUsers(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "John Doe")
	mockSvc.AssertExpectations(t)
}
