// Package store holds in-memory mirrors of the remote collections and
// the optimistic mutation machinery shared by every entity store.
//
// Each mutation runs as a Command: the local mirror is mutated first
// (the pending state), then the remote write happens, and on failure the
// local mutation is reversed exactly once. The mirror therefore always
// reflects either a state the remote store has committed or one
// explicitly pending on an in-flight write.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dompetku/dompet/internal/common"
)

// ErrMutationInFlight is returned when a second mutation is attempted on
// an entity whose previous mutation has not completed.
var ErrMutationInFlight = errors.New("mutation already in flight for this entity")

// Status tracks a command through its lifecycle.
type Status int

const (
	// StatusPending means the local mirror is mutated but the remote
	// write has not resolved.
	StatusPending Status = iota
	// StatusCommitted means the remote store accepted the write.
	StatusCommitted
	// StatusFailed means the remote write failed and the local mutation
	// was reversed.
	StatusFailed
)

// Command is a single optimistic mutation.
type Command struct {
	// Apply mutates the local mirror optimistically.
	Apply func()
	// Remote persists the mutation to the remote store.
	Remote func(ctx context.Context) error
	// Reverse undoes Apply. Called exactly once if Remote fails.
	Reverse func()
	// Commit, if set, runs after a successful Remote to reconcile the
	// mirror with authoritative remote state (fresh version tokens).
	Commit func()
	// Entity and ID key the per-entity mutation lock.
	Entity string
	ID     string

	status Status
}

// Status reports the command's lifecycle state.
func (c *Command) Status() Status {
	return c.status
}

// Runner executes commands while enforcing at most one in-flight
// mutation per entity instance.
type Runner struct {
	inFlight map[string]struct{}
	mu       sync.Mutex
}

// NewRunner creates a command runner.
func NewRunner() *Runner {
	return &Runner{inFlight: make(map[string]struct{})}
}

// Run executes a command. A concurrent mutation on the same entity ID is
// rejected with ErrMutationInFlight rather than queued: the caller
// double-submitted, and the first submission wins.
func (r *Runner) Run(ctx context.Context, cmd *Command) error {
	key := cmd.Entity + "/" + cmd.ID

	r.mu.Lock()
	if _, busy := r.inFlight[key]; busy {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMutationInFlight, key)
	}
	r.inFlight[key] = struct{}{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.inFlight, key)
		r.mu.Unlock()
	}()

	cmd.status = StatusPending
	if cmd.Apply != nil {
		cmd.Apply()
	}

	if err := cmd.Remote(ctx); err != nil {
		if cmd.Reverse != nil {
			cmd.Reverse()
		}
		cmd.status = StatusFailed
		return common.NewUserError(fmt.Sprintf("failed to save %s", cmd.Entity), err)
	}

	if cmd.Commit != nil {
		cmd.Commit()
	}
	cmd.status = StatusCommitted
	return nil
}
