package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/common"
)

func TestRunner_CommitPath(t *testing.T) {
	runner := NewRunner()

	var applied, reversed, committed bool
	cmd := &Command{
		Entity:  "thing",
		ID:      "1",
		Apply:   func() { applied = true },
		Remote:  func(context.Context) error { return nil },
		Reverse: func() { reversed = true },
		Commit:  func() { committed = true },
	}

	require.NoError(t, runner.Run(context.Background(), cmd))
	assert.True(t, applied)
	assert.True(t, committed)
	assert.False(t, reversed)
	assert.Equal(t, StatusCommitted, cmd.Status())
}

func TestRunner_FailurePathReversesOnce(t *testing.T) {
	runner := NewRunner()

	reversals := 0
	cmd := &Command{
		Entity:  "thing",
		ID:      "1",
		Apply:   func() {},
		Remote:  func(context.Context) error { return errors.New("remote down") },
		Reverse: func() { reversals++ },
		Commit:  func() { t.Fatal("commit must not run on failure") },
	}

	err := runner.Run(context.Background(), cmd)
	require.Error(t, err)
	assert.Equal(t, 1, reversals)
	assert.Equal(t, StatusFailed, cmd.Status())

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr), "failures surface as user errors")
}

func TestRunner_RejectsConcurrentMutationOnSameID(t *testing.T) {
	runner := NewRunner()

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = runner.Run(context.Background(), &Command{
			Entity: "wallet",
			ID:     "7",
			Remote: func(context.Context) error {
				close(started)
				<-release
				return nil
			},
		})
	}()

	<-started
	err := runner.Run(context.Background(), &Command{
		Entity: "wallet",
		ID:     "7",
		Remote: func(context.Context) error { return nil },
	})
	assert.ErrorIs(t, err, ErrMutationInFlight)

	// A different ID is unaffected.
	err = runner.Run(context.Background(), &Command{
		Entity: "wallet",
		ID:     "8",
		Remote: func(context.Context) error { return nil },
	})
	assert.NoError(t, err)

	close(release)
	wg.Wait()

	// The lock releases once the first mutation completes.
	err = runner.Run(context.Background(), &Command{
		Entity: "wallet",
		ID:     "7",
		Remote: func(context.Context) error { return nil },
	})
	assert.NoError(t, err)
}
