package evaluator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
)

func TestModelLoader_LoadsOnce(t *testing.T) {
	l := newModelLoader()
	var loads int32

	load := func(ctx context.Context) error {
		atomic.AddInt32(&loads, 1)
		return nil
	}

	if err := l.ensure(context.Background(), load); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := l.ensure(context.Background(), load); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Errorf("load attempts: got %d, want 1", n)
	}
	if l.State() != domain.StateReady {
		t.Errorf("state: got %q, want %q", l.State(), domain.StateReady)
	}
}

func TestModelLoader_ConcurrentFirstUseSingleFlight(t *testing.T) {
	l := newModelLoader()
	var loads int32

	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) error {
		atomic.AddInt32(&loads, 1)
		close(started)
		<-release
		return nil
	}

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = l.ensure(context.Background(), load)
	}()

	// Once the load is in flight, every further caller must join it
	// rather than start its own.
	<-started
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.ensure(context.Background(), load)
		}(i)
	}

	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Errorf("concurrent cold start: got %d load attempts, want 1", n)
	}
	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: unexpected error %v", i, err)
		}
	}
	if l.State() != domain.StateReady {
		t.Errorf("state: got %q, want %q", l.State(), domain.StateReady)
	}
}

func TestModelLoader_FailureAllowsRetry(t *testing.T) {
	l := newModelLoader()
	var loads int32

	failing := func(ctx context.Context) error {
		atomic.AddInt32(&loads, 1)
		return errors.New("weights unavailable")
	}

	if err := l.ensure(context.Background(), failing); err == nil {
		t.Fatal("expected load failure to surface")
	}
	if l.State() != domain.StateUninitialized {
		t.Errorf("state after failure: got %q, want %q", l.State(), domain.StateUninitialized)
	}

	ok := func(ctx context.Context) error {
		atomic.AddInt32(&loads, 1)
		return nil
	}
	if err := l.ensure(context.Background(), ok); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}

	if n := atomic.LoadInt32(&loads); n != 2 {
		t.Errorf("load attempts: got %d, want 2", n)
	}
	if l.State() != domain.StateReady {
		t.Errorf("state after retry: got %q, want %q", l.State(), domain.StateReady)
	}
}
