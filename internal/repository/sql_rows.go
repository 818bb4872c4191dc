package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/model"
)

// taskRow is the relational shape of a task: known fields as indexed
// columns, everything else as a JSON document.
type taskRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	Category  string `gorm:"size:255;index"`
	Position  int    `gorm:"index"`
	Timestamp *time.Time
	Fields    []byte `gorm:"type:json"`
}

func (taskRow) TableName() string { return TasksCollection }

// userRow keeps email nullable so records without one never collide on the
// unique index.
type userRow struct {
	ID     string  `gorm:"primaryKey;size:36"`
	Email  *string `gorm:"uniqueIndex;size:255"`
	Fields []byte  `gorm:"type:json"`
}

func (userRow) TableName() string { return UsersCollection }

func toTaskRow(id string, task model.Task) (taskRow, error) {
	fields, err := json.Marshal(taskExtras(task.Document()))
	if err != nil {
		return taskRow{}, fmt.Errorf("encode task fields: %w", err)
	}
	row := taskRow{ID: id, Category: task.Category, Position: task.Position, Fields: fields}
	if !task.Timestamp.IsZero() {
		ts := task.Timestamp.UTC()
		row.Timestamp = &ts
	}
	return row, nil
}

func fromTaskRow(row taskRow) (model.Task, error) {
	doc, err := decodeFields(row.Fields)
	if err != nil {
		return model.Task{}, fmt.Errorf("decode task %s: %w", row.ID, err)
	}
	doc[model.FieldID] = row.ID
	doc[model.FieldPosition] = row.Position
	if row.Category != "" {
		doc[model.FieldCategory] = row.Category
	}
	if row.Timestamp != nil {
		doc[model.FieldTimestamp] = row.Timestamp.UTC()
	}
	return model.TaskFromMap(doc), nil
}

func toUserRow(id string, user model.User) (userRow, error) {
	fields, err := json.Marshal(userExtras(user.Document()))
	if err != nil {
		return userRow{}, fmt.Errorf("encode user fields: %w", err)
	}
	row := userRow{ID: id, Fields: fields}
	if user.Email != "" {
		email := user.Email
		row.Email = &email
	}
	return row, nil
}

func fromUserRow(row userRow) (model.User, error) {
	doc, err := decodeFields(row.Fields)
	if err != nil {
		return model.User{}, fmt.Errorf("decode user %s: %w", row.ID, err)
	}
	doc[model.FieldID] = row.ID
	if row.Email != nil {
		doc[model.FieldEmail] = *row.Email
	}
	return model.UserFromMap(doc), nil
}

// taskExtras drops the keys stored as columns. A known key whose value has
// the wrong type never reaches its column, so it stays in the document. An
// empty category stays too; the column cannot tell it from an absent one.
func taskExtras(doc map[string]any) map[string]any {
	if c, ok := doc[model.FieldCategory].(string); ok && c != "" {
		delete(doc, model.FieldCategory)
	}
	if _, ok := doc[model.FieldPosition].(int); ok {
		delete(doc, model.FieldPosition)
	}
	if _, ok := doc[model.FieldTimestamp].(time.Time); ok {
		delete(doc, model.FieldTimestamp)
	}
	return doc
}

func userExtras(doc map[string]any) map[string]any {
	if _, ok := doc[model.FieldEmail].(string); ok {
		delete(doc, model.FieldEmail)
	}
	return doc
}

func decodeFields(raw []byte) (map[string]any, error) {
	doc := map[string]any{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
