package model

import (
	"encoding/json"
	"time"
)

// Task is a board item. The store owns its identifier; Position and
// Category are chosen by the client to place it on the board.
type Task struct {
	ID        string
	Category  string
	Position  int
	Timestamp time.Time
	// Fields holds every attribute without a typed home above.
	Fields map[string]any
}

// TaskFromMap builds a Task from a decoded document. Known keys that carry
// an unexpected type are kept in Fields unchanged, and so is an empty
// category, so it survives a round trip through any store.
func TaskFromMap(doc map[string]any) Task {
	t := Task{Fields: make(map[string]any, len(doc))}
	for k, v := range doc {
		switch k {
		case FieldID:
			if id, ok := v.(string); ok {
				t.ID = id
				continue
			}
		case FieldCategory:
			if c, ok := v.(string); ok && c != "" {
				t.Category = c
				continue
			}
		case FieldPosition:
			t.Position = ParsePosition(v)
			continue
		case FieldTimestamp:
			if ts, ok := parseTimestamp(v); ok {
				t.Timestamp = ts
				continue
			}
		}
		t.Fields[k] = v
	}
	return t
}

// Document returns the stored representation of the task without its
// identifier.
func (t Task) Document() map[string]any {
	doc := copyFields(t.Fields, 3)
	delete(doc, FieldID)
	if t.Category != "" {
		doc[FieldCategory] = t.Category
	}
	doc[FieldPosition] = t.Position
	if !t.Timestamp.IsZero() {
		doc[FieldTimestamp] = t.Timestamp
	}
	return doc
}

// MarshalJSON flattens Fields beside the known keys.
func (t Task) MarshalJSON() ([]byte, error) {
	doc := t.Document()
	if t.ID != "" {
		doc[FieldID] = t.ID
	}
	return json.Marshal(doc)
}

// UnmarshalJSON accepts any JSON object.
func (t *Task) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*t = TaskFromMap(doc)
	return nil
}

// Patch is a partial set of task fields merged into a stored task.
type Patch map[string]any

// Normalize drops the identifier and coerces position to an integer.
func (p Patch) Normalize() Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		switch k {
		case FieldID:
			continue
		case FieldPosition:
			v = ParsePosition(v)
		}
		out[k] = v
	}
	return out
}

// Merge returns t with patch applied key by key. Keys absent from patch
// keep their current value.
func (t Task) Merge(patch Patch) Task {
	doc := t.Document()
	for k, v := range patch.Normalize() {
		doc[k] = v
	}
	merged := TaskFromMap(doc)
	merged.ID = t.ID
	return merged
}
