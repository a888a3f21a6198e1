package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestInMemoryDispatcher_PublishFillsMetadata(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got Event
	d.Subscribe(EventSessionStarted, func(_ context.Context, e Event) error {
		got = e
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSessionStarted, SubjectID: "vet-1"}))
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, "vet-1", got.SubjectID)
}

func TestInMemoryDispatcher_AllHandlersRunDespiteErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	calls := 0
	d.Subscribe(EventPetDeleted, func(context.Context, Event) error {
		calls++
		return errors.New("first failed")
	})
	d.Subscribe(EventPetDeleted, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventPetDeleted})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestInMemoryDispatcher_ConcurrentPublish(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewInMemoryDispatcher()
	var (
		mu    sync.Mutex
		count int
	)
	d.Subscribe(EventClientDeleted, func(context.Context, Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Publish(context.Background(), Event{Type: EventClientDeleted})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
}

func TestNop(t *testing.T) {
	var d Dispatcher = Nop{}
	d.Subscribe(EventVetRegistered, nil)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventVetRegistered}))
}
