package evaluator

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
)

// modelLoader guards the one piece of shared mutable state an
// evaluator owns: its lazily acquired model handle. ensure runs the
// load at most once per attempt; callers that arrive while a load is
// in flight wait for that load's outcome instead of starting their
// own. A failed load reverts the state to not_loaded so the next
// request can retry.
type modelLoader struct {
	mu    sync.Mutex
	state domain.EvaluatorState
	group singleflight.Group
}

func newModelLoader() *modelLoader {
	return &modelLoader{state: domain.StateUninitialized}
}

func (l *modelLoader) State() domain.EvaluatorState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *modelLoader) ready() bool {
	return l.State() == domain.StateReady
}

// ensure transitions not_loaded -> loading -> ready, executing load at
// most once across concurrent callers. Exactly one successful
// transition to ready can ever happen; once there, ensure is a cheap
// no-op.
func (l *modelLoader) ensure(ctx context.Context, load func(ctx context.Context) error) error {
	l.mu.Lock()
	if l.state == domain.StateReady {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	_, err, _ := l.group.Do("load", func() (interface{}, error) {
		l.mu.Lock()
		if l.state == domain.StateReady {
			l.mu.Unlock()
			return nil, nil
		}
		l.state = domain.StateInitializing
		l.mu.Unlock()

		err := load(ctx)

		l.mu.Lock()
		if err != nil {
			l.state = domain.StateUninitialized
		} else {
			l.state = domain.StateReady
		}
		l.mu.Unlock()

		return nil, err
	})

	return err
}
