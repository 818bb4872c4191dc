package repository

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard/internal/model"
)

// The memory backend keeps records in process. Ids are ObjectID hex
// strings, the same shape the Mongo backend hands out.

type memoryTask struct {
	seq  int
	task model.Task
}

type memoryTaskRepository struct {
	mu    sync.RWMutex
	seq   int
	tasks map[string]memoryTask
}

// NewMemoryTaskRepository returns an empty in-process TaskRepository.
func NewMemoryTaskRepository() TaskRepository {
	return &memoryTaskRepository{tasks: make(map[string]memoryTask)}
}

func (r *memoryTaskRepository) List(_ context.Context) ([]model.Task, error) {
	r.mu.RLock()
	entries := make([]memoryTask, 0, len(r.tasks))
	for _, e := range r.tasks {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].task.Position != entries[j].task.Position {
			return entries[i].task.Position < entries[j].task.Position
		}
		return entries[i].seq < entries[j].seq
	})
	tasks := make([]model.Task, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, cloneTask(e.task))
	}
	return tasks, nil
}

func (r *memoryTaskRepository) Create(_ context.Context, task *model.Task) (string, error) {
	stored := cloneTask(*task)
	stored.ID = primitive.NewObjectID().Hex()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.tasks[stored.ID] = memoryTask{seq: r.seq, task: stored}
	return stored.ID, nil
}

func (r *memoryTaskRepository) FindByID(_ context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	task := cloneTask(e.task)
	return &task, nil
}

func (r *memoryTaskRepository) Update(_ context.Context, id string, patch model.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.tasks[id]
	if !ok {
		return ErrNotFound
	}
	e.task = e.task.Merge(patch)
	r.tasks[id] = e
	return nil
}

func (r *memoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

type memoryUserRepository struct {
	mu    sync.RWMutex
	users []model.User
}

// NewMemoryUserRepository returns an empty in-process UserRepository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{}
}

func (r *memoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	return users, nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			user := cloneUser(u)
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) (string, error) {
	stored := cloneUser(*user)
	stored.ID = primitive.NewObjectID().Hex()

	r.mu.Lock()
	defer r.mu.Unlock()
	if stored.Email != "" {
		for _, u := range r.users {
			if u.Email == stored.Email {
				return "", ErrDuplicateKey
			}
		}
	}
	r.users = append(r.users, stored)
	return stored.ID, nil
}

func cloneTask(t model.Task) model.Task {
	c := model.TaskFromMap(t.Document())
	c.ID = t.ID
	return c
}

func cloneUser(u model.User) model.User {
	c := model.UserFromMap(u.Document())
	c.ID = u.ID
	return c
}
