package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"tasktracker/internal/cache"
	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
)

const assigneeCacheTTL = 5 * time.Minute

// CreateTaskInput carries the caller-supplied fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	AssigneeID  *string
	Status      model.TaskStatus
	DueDate     *string
}

// TaskPatch is an unset-aware partial update: nil pointer fields were omitted
// from the request and must not be touched. AssigneeIDSet distinguishes an
// omitted assignee_id from one explicitly set to null.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *model.TaskStatus
	DueDate       *string
	AssigneeID    *string
	AssigneeIDSet bool
}

// TaskService exposes task domain operations and keeps the denormalized
// assignee name consistent at write time.
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type taskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewTaskService builds a TaskService over both stores.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, cache *cache.Client) TaskService {
	return &taskService{taskRepo: taskRepo, userRepo: userRepo, cache: cache}
}

// lookupAssignee performs the point lookup used to snapshot an assignee's
// name. A missing user is (nil, nil), not an error. Users are immutable after
// creation, so cached entries never go stale.
func (s *taskService) lookupAssignee(ctx context.Context, id string) (*model.User, error) {
	key := userCacheKey(id)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, key, payload, assigneeCacheTTL)
	}
	return user, nil
}

// CreateTask resolves the assignee (when given) into a name snapshot and
// persists the task. An assignee id that matches no user is accepted and
// simply leaves the name empty.
func (s *taskService) CreateTask(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	status := input.Status
	if status == "" {
		status = model.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	task := &model.Task{
		Title:       input.Title,
		Description: input.Description,
		AssigneeID:  input.AssigneeID,
		Status:      status,
		DueDate:     input.DueDate,
	}

	if input.AssigneeID != nil {
		user, err := s.lookupAssignee(ctx, *input.AssigneeID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			name := user.Name
			task.AssigneeName = &name
		}
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	return s.taskRepo.List(ctx, filter)
}

// UpdateTask applies an unset-aware patch. When the patch reassigns the task,
// the assignee name snapshot is refreshed as part of the same merge; the
// augmented field set is computed by augmentPatch before the store is touched.
// The stored record is reloaded after the merge so the response reflects true
// stored state.
func (s *taskService) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*model.Task, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	if _, err := s.taskRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	var assignee *model.User
	if patch.AssigneeIDSet && patch.AssigneeID != nil {
		var err error
		assignee, err = s.lookupAssignee(ctx, *patch.AssigneeID)
		if err != nil {
			return nil, err
		}
	}

	fields := augmentPatch(patch, assignee)
	if err := s.taskRepo.ApplyPartialUpdate(ctx, id, fields); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	return s.taskRepo.Delete(ctx, id)
}

// augmentPatch turns a TaskPatch into the column map handed to the store,
// appending the derived assignee_name field the caller cannot set directly:
//
//   - assignee_id set to a value and the user exists: snapshot the name.
//   - assignee_id set to a value but the user is missing: the prior stored
//     name is left as-is, attached to the new id.
//   - assignee_id explicitly null: the name is cleared too.
//   - assignee_id absent from the patch: the name is untouched.
//
// Kept as a pure function so the merge rules are testable without a store.
func augmentPatch(patch TaskPatch, assignee *model.User) map[string]interface{} {
	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Status != nil {
		fields["status"] = *patch.Status
	}
	if patch.DueDate != nil {
		fields["due_date"] = *patch.DueDate
	}
	if patch.AssigneeIDSet {
		if patch.AssigneeID == nil {
			fields["assignee_id"] = nil
			fields["assignee_name"] = nil
		} else {
			fields["assignee_id"] = *patch.AssigneeID
			if assignee != nil {
				fields["assignee_name"] = assignee.Name
			}
		}
	}
	return fields
}
