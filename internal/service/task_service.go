package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/realtime"
	"taskboard/internal/repository"
)

// TaskService exposes task operations.
type TaskService interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, task model.Task) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.Patch) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type taskService struct {
	repo        repository.TaskRepository
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

// NewTaskService builds a TaskService that persists through repo and
// announces every successful mutation through broadcaster, in mutation
// order. broadcaster must not block; wrap slow transports in an EventQueue.
func NewTaskService(repo repository.TaskRepository, broadcaster Broadcaster, logger *slog.Logger) TaskService {
	return &taskService{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger.With("component", "task_service"),
		now:         time.Now,
	}
}

// ListTasks returns every task ordered by ascending position. The store
// sorts too; sorting here keeps the order intact for records whose stored
// position is not numeric.
func (s *taskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError("list tasks", err)
	}
	slices.SortStableFunc(tasks, func(a, b model.Task) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return tasks, nil
}

// CreateTask stamps the task, stores it and returns the stored record.
func (s *taskService) CreateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	task.ID = ""
	task.Timestamp = ceilMillis(s.now().UTC())

	id, err := s.repo.Create(ctx, &task)
	if err != nil {
		return nil, storeError("create task", err)
	}
	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("reload task "+id, err)
	}

	s.publish(ctx, realtime.TaskCreated(*stored))
	return stored, nil
}

// UpdateTask merges patch into the task and returns the merged record.
func (s *taskService) UpdateTask(ctx context.Context, id string, patch model.Patch) (*model.Task, error) {
	if err := s.repo.Update(ctx, id, patch.Normalize()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, storeError("update task "+id, err)
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Deleted between the update and the read.
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, storeError("reload task "+id, err)
	}

	s.publish(ctx, realtime.TaskUpdated(*updated))
	return updated, nil
}

// DeleteTask removes the task.
func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return storeError("delete task "+id, err)
	}

	s.publish(ctx, realtime.TaskDeleted(id))
	return nil
}

// publish announces ev. Failures are only logged; the mutation already
// happened.
func (s *taskService) publish(ctx context.Context, ev realtime.Event) {
	if err := s.broadcaster.Broadcast(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.Warn("broadcast failed", "event", ev.Name, "error", err)
	}
}

// ceilMillis rounds t up to the millisecond the store keeps, so the stored
// timestamp is never earlier than t.
func ceilMillis(t time.Time) time.Time {
	r := t.Truncate(time.Millisecond)
	if r.Before(t) {
		r = r.Add(time.Millisecond)
	}
	return r
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStoreUnavailable, err)
}
