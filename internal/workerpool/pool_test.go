package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoReturnsResult(t *testing.T) {
	p := New(2, 4)
	defer p.Close()

	got, err := Do(context.Background(), p, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestDoPropagatesError(t *testing.T) {
	p := New(1, 1)
	defer p.Close()

	boom := errors.New("boom")
	_, err := Do(context.Background(), p, func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestDoCallerDeadline(t *testing.T) {
	p := New(1, 1)
	defer p.Close()

	var finished atomic.Bool
	release := make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Do(ctx, p, func(context.Context) (int, error) {
		<-release
		finished.Store(true)
		return 1, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The task keeps running on the pool after the caller gave up.
	assert.False(t, finished.Load())
	close(release)
}

func TestDoAfterClose(t *testing.T) {
	p := New(1, 1)
	p.Close()

	_, err := p.Do(context.Background(), func(context.Context) (any, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDoRacingCloseDoesNotPanic(t *testing.T) {
	for i := 0; i < 50; i++ {
		p := New(2, 1)

		start := make(chan struct{})
		done := make(chan struct{})
		for j := 0; j < 4; j++ {
			go func() {
				defer func() { done <- struct{}{} }()
				<-start
				// Either the job runs or the pool reports closed;
				// a send on the closed channel would panic here.
				_, err := p.Do(context.Background(), func(context.Context) (any, error) {
					return nil, nil
				})
				if err != nil {
					assert.ErrorIs(t, err, ErrClosed)
				}
			}()
		}

		close(start)
		p.Close()
		for j := 0; j < 4; j++ {
			<-done
		}
	}
}

func TestConcurrentSubmissions(t *testing.T) {
	p := New(4, 16)
	defer p.Close()

	var count atomic.Int64
	done := make(chan struct{})
	for i := 0; i < 16; i++ {
		go func() {
			_, err := Do(context.Background(), p, func(context.Context) (int, error) {
				count.Add(1)
				return 0, nil
			})
			assert.NoError(t, err)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 16; i++ {
		<-done
	}
	assert.Equal(t, int64(16), count.Load())
}
