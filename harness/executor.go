package harness

import (
	"context"
)

// Runner executes one replication of a simulation trial. Implementations are
// treated as opaque, potentially slow black boxes. They must honor ctx
// cancellation at safe points; a runner that never checks ctx keeps consuming
// resources after its deadline has been declared exceeded.
type Runner interface {
	Run(ctx context.Context, cfg ReplicationConfig) (*RawTrialResult, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cfg ReplicationConfig) (*RawTrialResult, error)

func (f RunnerFunc) Run(ctx context.Context, cfg ReplicationConfig) (*RawTrialResult, error) {
	return f(ctx, cfg)
}

// RunWithDeadline executes one replication under the config's wall-clock
// deadline. It returns a *TimeoutError when the deadline elapses and a
// *SimulationError wrapping the runner's own error otherwise. Cancellation of
// an overrunning task is cooperative via ctx; the result channel is buffered
// so a late finisher never leaks a blocked goroutine.
func RunWithDeadline(ctx context.Context, runner Runner, cfg ReplicationConfig) (*RawTrialResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	type reply struct {
		res *RawTrialResult
		err error
	}
	ch := make(chan reply, 1)
	go func() {
		res, err := runner.Run(runCtx, cfg)
		ch <- reply{res: res, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, &SimulationError{Replication: cfg.Replication, Err: r.err}
		}
		return r.res, nil
	case <-runCtx.Done():
		if err := ctx.Err(); err != nil {
			// The batch itself was cancelled, not this replication's deadline.
			return nil, err
		}
		return nil, &TimeoutError{Replication: cfg.Replication, Timeout: cfg.Timeout}
	}
}
