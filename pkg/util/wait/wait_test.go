package wait

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitFor(t *testing.T) {
	t.Parallel()

	errCheck := errors.New("check failed")

	tests := map[string]struct {
		interval  time.Duration
		timeout   time.Duration
		checkFunc func(calls int) (bool, error)
		wantDone  bool
		wantErr   error
		minCalls  int
		maxCalls  int
		maxTime   time.Duration
	}{
		"immediate success needs a single check": {
			interval:  20 * time.Millisecond,
			timeout:   time.Second,
			checkFunc: func(int) (bool, error) { return true, nil },
			wantDone:  true,
			minCalls:  1,
			maxCalls:  1,
			maxTime:   500 * time.Millisecond,
		},
		"success on second check returns before timeout": {
			interval: 20 * time.Millisecond,
			timeout:  5 * time.Second,
			checkFunc: func(calls int) (bool, error) {
				return calls >= 2, nil
			},
			wantDone: true,
			minCalls: 2,
			maxCalls: 2,
			maxTime:  time.Second,
		},
		"never true times out": {
			interval:  20 * time.Millisecond,
			timeout:   150 * time.Millisecond,
			checkFunc: func(int) (bool, error) { return false, nil },
			wantDone:  false,
			minCalls:  2,
			maxTime:   150*time.Millisecond + 20*time.Millisecond + 200*time.Millisecond,
		},
		"check error propagates": {
			interval: 20 * time.Millisecond,
			timeout:  time.Second,
			checkFunc: func(calls int) (bool, error) {
				if calls == 2 {
					return false, errCheck
				}
				return false, nil
			},
			wantErr:  errCheck,
			minCalls: 2,
			maxCalls: 2,
			maxTime:  500 * time.Millisecond,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			start := time.Now()
			done, err := WaitFor(t.Context(), tc.interval, tc.timeout, func(context.Context) (bool, error) {
				calls++
				return tc.checkFunc(calls)
			})
			elapsed := time.Since(start)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("WaitFor() error = %v, want %v", err, tc.wantErr)
			}
			if done != tc.wantDone {
				t.Errorf("WaitFor() done = %v, want %v", done, tc.wantDone)
			}
			if calls < tc.minCalls {
				t.Errorf("check called %d times, want at least %d", calls, tc.minCalls)
			}
			if tc.maxCalls > 0 && calls > tc.maxCalls {
				t.Errorf("check called %d times, want at most %d", calls, tc.maxCalls)
			}
			if elapsed > tc.maxTime {
				t.Errorf("WaitFor() took %s, want at most %s", elapsed, tc.maxTime)
			}
		})
	}
}

func TestWaitFor_ParentCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	done, err := WaitFor(ctx, 10*time.Millisecond, time.Minute, func(context.Context) (bool, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return false, nil
	})
	if done {
		t.Error("WaitFor() done = true after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WaitFor() error = %v, want context.Canceled", err)
	}
}

func TestWaitFor_InvalidWindow(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		interval time.Duration
		timeout  time.Duration
	}{
		"zero interval":             {interval: 0, timeout: time.Second},
		"zero timeout":              {interval: time.Second, timeout: 0},
		"interval equal to timeout": {interval: time.Second, timeout: time.Second},
		"interval above timeout":    {interval: 2 * time.Second, timeout: time.Second},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			called := false
			_, err := WaitFor(t.Context(), tc.interval, tc.timeout, func(context.Context) (bool, error) {
				called = true
				return true, nil
			})
			if err == nil {
				t.Error("WaitFor() error = nil, want error")
			}
			if called {
				t.Error("check must not run for an invalid poll window")
			}
		})
	}
}
