/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package wait provides a bounded, fixed-interval poll on top of
// k8s.io/apimachinery/pkg/util/wait.
package wait

import (
	"context"
	"fmt"
	"time"

	k8swait "k8s.io/apimachinery/pkg/util/wait"
)

// CheckFunc reports whether the awaited condition holds. A non-nil error
// aborts the wait and is returned to the caller unchanged.
type CheckFunc func(ctx context.Context) (bool, error)

// WaitFor evaluates check immediately and then once per interval until it
// returns true or timeout elapses.
//
// It returns (true, nil) as soon as the check succeeds and (false, nil) when
// the timeout is reached. Errors returned by check are propagated as is, and
// cancellation of ctx is reported as ctx.Err(). The interval is fixed: there
// is no jitter and no backoff.
func WaitFor(ctx context.Context, interval, timeout time.Duration, check CheckFunc) (bool, error) {
	if interval <= 0 || timeout <= 0 || interval >= timeout {
		return false, fmt.Errorf("invalid poll window: interval %s, timeout %s", interval, timeout)
	}

	var checkErr error
	err := k8swait.PollUntilContextTimeout(ctx, interval, timeout, true, func(pollCtx context.Context) (bool, error) {
		done, err := check(pollCtx)
		if err != nil {
			checkErr = err
			return false, err
		}
		return done, nil
	})

	switch {
	case err == nil:
		return true, nil
	case checkErr != nil:
		return false, checkErr
	case ctx.Err() != nil:
		return false, ctx.Err()
	case k8swait.Interrupted(err):
		return false, nil
	default:
		return false, err
	}
}
