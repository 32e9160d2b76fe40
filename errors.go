// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoutine reports a constructor argument that is not a [Routine].
	ErrInvalidRoutine = errors.New("saga: invalid constructor argument")

	// ErrUnstartedRoutine reports a routine factory passed where an instance
	// was expected.
	ErrUnstartedRoutine = errors.New("saga: make sure to call the saga to get an instance, not pass in the factory itself")

	// ErrAlreadyRun reports a mutation or a second run after Run started.
	ErrAlreadyRun = errors.New("saga: already run")

	// ErrNotRun reports a query issued before Run.
	ErrNotRun = errors.New("saga: not run")

	// ErrChained reports a reply attached to an already resolved expectation,
	// or a global override set twice.
	ErrChained = errors.New("saga: no chained method calls allowed")

	// ErrReporterShape reports a reporter lacking the assert capability.
	ErrReporterShape = errors.New("saga: reporter must have a method called `Assert`")

	// ErrNilFailure reports a nil error registered as a failure reply.
	ErrNilFailure = errors.New("saga: failure reply must be a non-nil error")

	// ErrUnhandledEffect reports a kont operation the routine adapter cannot
	// interpret.
	ErrUnhandledEffect = errors.New("saga: unhandled effect")
)

func chainedAfter(method string) error {
	return fmt.Errorf("%w after `%s`", ErrChained, method)
}

func alreadyRun(method string) error {
	return fmt.Errorf("%w: cannot call `%s` after `Run`", ErrAlreadyRun, method)
}

func notRun() error {
	return fmt.Errorf("%w: must call `Run` before checking yielded values", ErrNotRun)
}
