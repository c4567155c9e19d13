package task

import (
	"context"
	"fmt"
)

type TaskService interface {
	ListTasks(ctx context.Context, filter ListFilter) ([]Task, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type TaskServiceImpl struct {
	Repo TaskRepository
}

func NewTaskService(repo TaskRepository) TaskService {
	return &TaskServiceImpl{Repo: repo}
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, filter ListFilter) ([]Task, error) {
	return s.Repo.List(ctx, filter)
}

func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}
