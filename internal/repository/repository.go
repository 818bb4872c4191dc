package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"
)

var (
	// ErrNotFound is returned when no record matches an id or filter.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Collection names shared by every backend.
const (
	TasksCollection = "tasks"
	UsersCollection = "users"
)

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	// List returns every task ordered by ascending position.
	List(ctx context.Context) ([]model.Task, error)
	// Create stores the task and returns the id assigned by the store.
	Create(ctx context.Context, task *model.Task) (string, error)
	FindByID(ctx context.Context, id string) (*model.Task, error)
	// Update merges patch into the stored task.
	Update(ctx context.Context, id string, patch model.Patch) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Create stores the user and returns the id assigned by the store.
	Create(ctx context.Context, user *model.User) (string, error)
}
