package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
)

func TestSessionsCreateAndGet(t *testing.T) {
	s := NewSessions(newService(t, nil, nil), 0)

	id, p := s.Create()
	require.NotEmpty(t, id)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	other, _ := s.Create()
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, s.Len())
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewSessions(newService(t, nil, nil), 0)
	_, a := s.Create()
	_, b := s.Create()

	task, err := a.Submit(context.Background(), png(100))
	require.NoError(t, err)
	_, err = task.Wait(context.Background())
	require.NoError(t, err)

	assert.Len(t, a.History(), 1)
	assert.Empty(t, b.History())
	assert.Equal(t, domain.StateIdle, b.State())
}

func TestSweepKeepsBusySessions(t *testing.T) {
	clock := newManualClock()
	s := NewSessions(newService(t, nil, clock), time.Minute)

	idleID, _ := s.Create()
	busyID, busy := s.Create()
	task, err := busy.Submit(context.Background(), png(100))
	require.NoError(t, err)
	clock.waitArmed(t)

	removed := s.Sweep(clock.Now().Add(2 * time.Minute))
	assert.Equal(t, 1, removed)

	_, err = s.Get(idleID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = s.Get(busyID)
	assert.NoError(t, err)

	busy.Reset()
	_, err = task.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrCanceled)
}

func TestRunStopsWithContext(t *testing.T) {
	s := NewSessions(newService(t, nil, nil), 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
