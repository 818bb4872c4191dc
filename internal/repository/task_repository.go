package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed TaskRepository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) List(ctx context.Context) ([]model.Task, error) {
	var rows []taskRow
	if err := r.db.WithContext(ctx).Order("position asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		task, err := fromTaskRow(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (string, error) {
	row, err := toTaskRow(uuid.NewString(), *task)
	if err != nil {
		return "", err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return row.ID, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var row taskRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	task, err := fromTaskRow(row)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update merges the patch under a row lock so the read-modify-write of the
// JSON document is atomic for this record.
func (r *taskRepository) Update(ctx context.Context, id string, patch model.Patch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row taskRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock task %s: %w", id, err)
		}
		if len(patch) == 0 {
			return nil
		}

		current, err := fromTaskRow(row)
		if err != nil {
			return err
		}
		merged, err := toTaskRow(id, current.Merge(patch))
		if err != nil {
			return err
		}
		if err := tx.Save(&merged).Error; err != nil {
			return fmt.Errorf("update task %s: %w", id, err)
		}
		return nil
	})
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&taskRow{})
	if res.Error != nil {
		return fmt.Errorf("delete task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
