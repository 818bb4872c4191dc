package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{name: "nil", in: nil, want: 0},
		{name: "json float", in: float64(3), want: 3},
		{name: "int64 from store", in: int64(7), want: 7},
		{name: "int32 from store", in: int32(-2), want: -2},
		{name: "numeric string", in: " 12 ", want: 12},
		{name: "fractional string", in: "4.9", want: 4},
		{name: "empty string", in: "", want: 0},
		{name: "boolean", in: true, want: 0},
		{name: "json number", in: json.Number("5"), want: 5},
		{name: "huge float saturates", in: 1e20, want: math.MaxInt},
		{name: "huge negative float saturates", in: -1e20, want: math.MinInt},
		{name: "huge numeric string saturates", in: "1e30", want: math.MaxInt},
		{name: "infinity saturates", in: math.Inf(1), want: math.MaxInt},
		{name: "not a number", in: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePosition(tt.in))
		})
	}
}

func TestTask_UnmarshalJSON(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"title":"A","category":"todo","position":"2","tags":["x"]}`), &task)
	require.NoError(t, err)

	assert.Equal(t, "todo", task.Category)
	assert.Equal(t, 2, task.Position)
	assert.Equal(t, "A", task.Fields["title"])
	assert.Equal(t, []any{"x"}, task.Fields["tags"])
	assert.NotContains(t, task.Fields, FieldCategory)
	assert.NotContains(t, task.Fields, FieldPosition)
}

func TestTask_MarshalJSONFlattensFields(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "abc",
		Category:  "doing",
		Position:  4,
		Timestamp: ts,
		Fields:    map[string]any{"title": "B"},
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "abc", got["_id"])
	assert.Equal(t, "doing", got["category"])
	assert.Equal(t, float64(4), got["position"])
	assert.Equal(t, "2024-05-01T10:00:00Z", got["timestamp"])
	assert.Equal(t, "B", got["title"])
}

func TestTask_MarshalJSONAlwaysCarriesPosition(t *testing.T) {
	data, err := json.Marshal(Task{Fields: map[string]any{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"position":0}`, string(data))
}

func TestTaskFromMap_KeepsMistypedKnownKeys(t *testing.T) {
	task := TaskFromMap(map[string]any{
		"category":  42.0,
		"timestamp": "yesterday",
	})

	assert.Empty(t, task.Category)
	assert.True(t, task.Timestamp.IsZero())
	assert.Equal(t, 42.0, task.Fields["category"])
	assert.Equal(t, "yesterday", task.Fields["timestamp"])

	doc := task.Document()
	assert.Equal(t, 42.0, doc["category"])
}

func TestPatch_Normalize(t *testing.T) {
	p := Patch{
		"_id":      "should-go",
		"position": "3",
		"category": "doing",
		"note":     nil,
	}

	got := p.Normalize()

	assert.Equal(t, Patch{"position": 3, "category": "doing", "note": nil}, got)
	assert.Contains(t, p, "_id", "input patch is left untouched")
}

func TestTask_MergeTouchesOnlyPatchedKeys(t *testing.T) {
	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "t1",
		Category:  "todo",
		Position:  2,
		Timestamp: ts,
		Fields:    map[string]any{"title": "A", "tags": []any{"x"}},
	}

	merged := task.Merge(Patch{"category": "done"})

	assert.Equal(t, "t1", merged.ID)
	assert.Equal(t, "done", merged.Category)
	assert.Equal(t, 2, merged.Position)
	assert.Equal(t, ts, merged.Timestamp)
	assert.Equal(t, task.Fields, merged.Fields)
	assert.Equal(t, "todo", task.Category, "receiver is not modified")
}

func TestTask_MergeMove(t *testing.T) {
	task := Task{ID: "t1", Category: "todo", Position: 0, Fields: map[string]any{}}

	merged := task.Merge(Patch{"position": 3.0, "category": "doing", "_id": "other"})

	assert.Equal(t, "t1", merged.ID)
	assert.Equal(t, "doing", merged.Category)
	assert.Equal(t, 3, merged.Position)
}

func TestTask_EmptyCategoryIsKept(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"title":"A","category":""}`), &task))
	assert.Empty(t, task.Category)

	out, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"A","category":"","position":0}`, string(out))

	cleared := Task{ID: "t1", Category: "todo", Fields: map[string]any{}}.Merge(Patch{"category": ""})
	assert.Empty(t, cleared.Category)
	assert.Contains(t, cleared.Document(), FieldCategory)

	refilled := cleared.Merge(Patch{"category": "done"})
	assert.Equal(t, "done", refilled.Category)
	assert.NotContains(t, refilled.Fields, FieldCategory)
}
