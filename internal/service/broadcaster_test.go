package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/realtime"
)

// gatedBroadcaster blocks every delivery until release is closed.
type gatedBroadcaster struct {
	recordingBroadcaster
	started chan struct{}
	release chan struct{}
}

func (b *gatedBroadcaster) Broadcast(ctx context.Context, ev realtime.Event) error {
	b.started <- struct{}{}
	<-b.release
	return b.recordingBroadcaster.Broadcast(ctx, ev)
}

func names(events []realtime.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Name)
	}
	return out
}

func TestEventQueue_KeepsOrder(t *testing.T) {
	next := &recordingBroadcaster{}
	q := NewEventQueue(next, discardLogger(), 128)

	want := make([]realtime.Event, 0, 100)
	for i := 0; i < 100; i++ {
		ev := realtime.TaskDeleted(fmt.Sprintf("t%d", i))
		want = append(want, ev)
		require.NoError(t, q.Broadcast(context.Background(), ev))
	}
	q.Close()

	assert.Equal(t, want, next.Events())
}

func TestEventQueue_DropsWhenFull(t *testing.T) {
	next := &gatedBroadcaster{started: make(chan struct{}, 4), release: make(chan struct{})}
	q := NewEventQueue(next, discardLogger(), 1)

	require.NoError(t, q.Broadcast(context.Background(), realtime.TaskDeleted("t1")))
	select {
	case <-next.started:
	case <-time.After(time.Second):
		t.Fatal("first event was not picked up")
	}

	require.NoError(t, q.Broadcast(context.Background(), realtime.TaskDeleted("t2")))
	err := q.Broadcast(context.Background(), realtime.TaskDeleted("t3"))
	assert.ErrorIs(t, err, ErrEventQueueFull)

	close(next.release)
	q.Close()

	events := next.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "t1", events[0].Data)
	assert.Equal(t, "t2", events[1].Data)
}

func TestEventQueue_RejectsAfterClose(t *testing.T) {
	q := NewEventQueue(&recordingBroadcaster{}, discardLogger(), 1)
	q.Close()
	q.Close()

	err := q.Broadcast(context.Background(), realtime.TaskDeleted("t1"))
	assert.ErrorIs(t, err, ErrEventQueueClosed)
}
