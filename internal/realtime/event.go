// Package realtime fans task change events out to connected WebSocket
// subscribers, optionally relayed between instances through Redis.
package realtime

import "taskboard/internal/model"

// Event names sent to subscribers.
const (
	EventTaskCreated = "taskCreated"
	EventTaskUpdated = "taskUpdated"
	EventTaskDeleted = "taskDeleted"
)

// Event is one frame on the wire: {"event": name, "data": payload}.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// TaskCreated carries the full stored task.
func TaskCreated(task model.Task) Event {
	return Event{Name: EventTaskCreated, Data: task}
}

// TaskUpdated carries the full task after the merge.
func TaskUpdated(task model.Task) Event {
	return Event{Name: EventTaskUpdated, Data: task}
}

// TaskDeleted carries only the id of the removed task.
func TaskDeleted(id string) Event {
	return Event{Name: EventTaskDeleted, Data: id}
}
