package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
)

// MockTaskService is a mock implementation of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, input service.CreateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (*model.Task, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func taskPtr(t model.Task) *model.Task {
	return &t
}

func TestTaskHandler_UpdateTask_PatchSemantics(t *testing.T) {
	inProgress := model.TaskStatusInProgress

	tests := []struct {
		name          string
		body          string
		expectedPatch service.TaskPatch
	}{
		{
			name:          "status only",
			body:          `{"status":"in-progress"}`,
			expectedPatch: service.TaskPatch{Status: &inProgress},
		},
		{
			name: "assignee id with value",
			body: `{"assignee_id":"u1"}`,
			expectedPatch: service.TaskPatch{
				AssigneeID:    func() *string { s := "u1"; return &s }(),
				AssigneeIDSet: true,
			},
		},
		{
			name:          "assignee id explicitly null",
			body:          `{"assignee_id":null}`,
			expectedPatch: service.TaskPatch{AssigneeIDSet: true},
		},
		{
			name:          "assignee id omitted",
			body:          `{"title":"Renamed"}`,
			expectedPatch: service.TaskPatch{Title: func() *string { s := "Renamed"; return &s }()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockTaskService)
			mockSvc.On("UpdateTask", mock.Anything, "t1", tt.expectedPatch).
				Return(taskPtr(model.Task{Title: "Renamed"}), nil)

			c, rec := newTestContext(http.MethodPatch, "/api/tasks/t1", tt.body)
			c.SetParamNames("id")
			c.SetParamValues("t1")

			h := NewTaskHandler(mockSvc)
			assert.NoError(t, h.UpdateTask(c))
			assert.Equal(t, http.StatusOK, rec.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_UpdateTask_InvalidStatus(t *testing.T) {
	mockSvc := new(MockTaskService)
	c, _ := newTestContext(http.MethodPatch, "/api/tasks/t1", `{"status":"archived"}`)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	h := NewTaskHandler(mockSvc)
	err := h.UpdateTask(c)

	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	mockSvc.AssertNotCalled(t, "UpdateTask")
}

func TestTaskHandler_ListTasks_Filter(t *testing.T) {
	mockSvc := new(MockTaskService)
	mockSvc.On("ListTasks", mock.Anything, repository.TaskFilter{
		Status:     "done",
		AssigneeID: "u1",
	}).Return([]model.Task{{Title: "Shipped", Status: model.TaskStatusDone}}, nil)

	c, rec := newTestContext(http.MethodGet, "/api/tasks?status=done&assignee_id=u1", "")

	h := NewTaskHandler(mockSvc)
	assert.NoError(t, h.ListTasks(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Shipped")
	mockSvc.AssertExpectations(t)
}

func TestTaskHandler_GetTask_NotFound(t *testing.T) {
	mockSvc := new(MockTaskService)
	mockSvc.On("GetTask", mock.Anything, "missing").Return(nil, apperrors.ErrTaskNotFound)

	c, _ := newTestContext(http.MethodGet, "/api/tasks/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	h := NewTaskHandler(mockSvc)
	err := h.GetTask(c)

	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
	mockSvc.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_Validation(t *testing.T) {
	mockSvc := new(MockTaskService)

	// description is required
	c, _ := newTestContext(http.MethodPost, "/api/tasks", `{"title":"No description"}`)

	h := NewTaskHandler(mockSvc)
	err := h.CreateTask(c)

	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	mockSvc.AssertNotCalled(t, "CreateTask")
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("DeleteTask", mock.Anything, "t1").Return(nil)

		c, rec := newTestContext(http.MethodDelete, "/api/tasks/t1", "")
		c.SetParamNames("id")
		c.SetParamValues("t1")

		h := NewTaskHandler(mockSvc)
		assert.NoError(t, h.DeleteTask(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Task deleted successfully")
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		mockSvc := new(MockTaskService)
		mockSvc.On("DeleteTask", mock.Anything, "missing").Return(apperrors.ErrTaskNotFound)

		c, _ := newTestContext(http.MethodDelete, "/api/tasks/missing", "")
		c.SetParamNames("id")
		c.SetParamValues("missing")

		h := NewTaskHandler(mockSvc)
		err := h.DeleteTask(c)

		var he *echo.HTTPError
		assert.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusNotFound, he.Code)
		mockSvc.AssertExpectations(t)
	})
}
