package debounce

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_SingleCallProceeds(t *testing.T) {
	d := New(10 * time.Millisecond)

	start := time.Now()
	err := d.Wait(context.Background())

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestDebouncer_NewerCallSupersedes(t *testing.T) {
	d := New(50 * time.Millisecond)

	first := make(chan error, 1)
	go func() { first <- d.Wait(context.Background()) }()

	// let the first waiter arm its timer
	time.Sleep(10 * time.Millisecond)
	second := d.Wait(context.Background())

	assert.ErrorIs(t, <-first, ErrSuperseded)
	assert.NoError(t, second)
}

func TestDebouncer_StopReleasesPendingAndFuture(t *testing.T) {
	d := New(time.Second)

	pending := make(chan error, 1)
	go func() { pending <- d.Wait(context.Background()) }()
	time.Sleep(10 * time.Millisecond)

	d.Stop()

	select {
	case err := <-pending:
		assert.ErrorIs(t, err, ErrStopped)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("pending waiter was not released by Stop")
	}
	assert.ErrorIs(t, d.Wait(context.Background()), ErrStopped)
	assert.True(t, d.Stopped())
}

func TestDebouncer_ContextCancel(t *testing.T) {
	d := New(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := d.Wait(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// a cancelled waiter leaves nothing pending
	d.Stop()
	assert.ErrorIs(t, d.Wait(context.Background()), ErrStopped)
}
