// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Phase is the lifecycle position of a [Runner].
type Phase uint32

const (
	// Unstarted accepts registrations; queries are rejected.
	Unstarted Phase = iota
	// Running is the duration of [Runner.Run].
	Running
	// Finished accepts queries only.
	Finished
)

func (p Phase) String() string {
	switch p {
	case Unstarted:
		return "unstarted"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("Phase(%d)", uint32(p))
}

// Option configures a [Runner].
type Option func(*Runner)

// WithLogger routes step and run records to l. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// override is a global reply; a nil *override is unset.
type override struct {
	reply any
	err   error
}

// Runner drives one [Routine] to completion with registered replies and
// records every yielded value. It is single-use and not safe for concurrent
// use.
type Runner struct {
	routine Routine
	serial  Serial
	logger  *slog.Logger
	phase   Phase

	expectations []sample
	replies      table
	failures     table
	alwaysReturn *override
	alwaysThrow  *override
	state        snapshot

	log    []sample
	result any
}

// New returns a runner for routine, which must be a started routine instance.
// A function value (a factory not yet called) fails with
// [ErrUnstartedRoutine]; anything else that is not a [Routine] fails with
// [ErrInvalidRoutine].
func New(routine any, opts ...Option) (*Runner, error) {
	rt, err := validRoutine(routine)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		routine: rt,
		serial:  nextSerial(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func validRoutine(v any) (Routine, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, ErrInvalidRoutine
	}
	if rv.Kind() == reflect.Func {
		return nil, ErrUnstartedRoutine
	}
	rt, ok := v.(Routine)
	if !ok {
		return nil, ErrInvalidRoutine
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan:
		if rv.IsNil() {
			return nil, ErrInvalidRoutine
		}
	}
	return rt, nil
}

// Serial returns the serial number assigned to this runner.
func (r *Runner) Serial() Serial {
	return r.serial
}

// Phase returns the runner's lifecycle position.
func (r *Runner) Phase() Phase {
	return r.phase
}

// Run drives the routine to completion once.
//
// A global failure set by [Runner.Throws] replaces the start: it is injected
// as the very first event and never again. At every suspension the runner
// then resumes with the first of: the global reply set by [Runner.Returns];
// the failure registered for a matching expectation; the reply registered for
// a matching expectation; nothing.
//
// A second call fails with [ErrAlreadyRun]. A failure the routine does not
// handle is returned as-is. If Run panics, for example from an extractor, a
// routine started by [Go] is abandoned and its goroutine exits.
func (r *Runner) Run() error {
	if r.phase != Unstarted {
		return fmt.Errorf("%w: only allowed to run once", ErrAlreadyRun)
	}
	r.phase = Running
	finished := false
	defer func() {
		r.phase = Finished
		if a, ok := r.routine.(abandoner); ok && !finished {
			a.abandon()
		}
	}()
	r.log = []sample{}

	var step Step
	var err error
	if r.alwaysThrow != nil {
		r.logger.Debug("saga start", "serial", r.serial, "decision", "throws (global)")
		step, err = r.routine.Fail(r.alwaysThrow.err)
	} else {
		r.logger.Debug("saga start", "serial", r.serial, "decision", "start")
		step, err = r.routine.Start()
	}
	for i := 0; err == nil && !step.Done; i++ {
		current := sample{value: step.Value, state: r.state}
		r.log = append(r.log, current)
		step, err = r.resume(i, current)
	}
	finished = true
	if err != nil {
		r.logger.Debug("saga routine failed", "serial", r.serial, "steps", len(r.log), "err", err)
		return err
	}
	r.result = step.Value
	r.logger.Info("saga run complete", "serial", r.serial, "steps", len(r.log))
	return nil
}

// resume applies the reply precedence to the value yielded at step i.
func (r *Runner) resume(i int, v sample) (Step, error) {
	if r.alwaysReturn != nil {
		r.trace(i, "returns (global)")
		return r.routine.Resume(r.alwaysReturn.reply)
	}
	if reply, ok := r.failures.lookup(v); ok {
		r.trace(i, "throws")
		return r.routine.Fail(reply.(error))
	}
	if reply, ok := r.replies.lookup(v); ok {
		r.trace(i, "returns")
		return r.routine.Resume(reply)
	}
	r.trace(i, "none")
	return r.routine.Resume(nil)
}

func (r *Runner) trace(i int, decision string) {
	r.logger.Debug("saga step", "serial", r.serial, "step", i, "decision", decision)
}

// Yielded reports whether the routine yielded a value matching v.
// It panics with [ErrNotRun] before Run.
func (r *Runner) Yielded(v any) bool {
	r.mustHaveRun()
	return contains(r.log, sample{value: v, state: r.state})
}

// YieldedAllExpected reports whether every value passed to
// [Runner.Expects] was yielded. Extra yields do not matter.
// It panics with [ErrNotRun] before Run.
func (r *Runner) YieldedAllExpected() bool {
	r.mustHaveRun()
	for _, e := range r.expectations {
		if !contains(r.log, e) {
			return false
		}
	}
	return true
}

// Expectations returns the values passed to [Runner.Expects], in order.
func (r *Runner) Expectations() []any {
	return values(r.expectations)
}

// Log returns the yielded values in emission order.
// It panics with [ErrNotRun] before Run.
func (r *Runner) Log() []any {
	r.mustHaveRun()
	return values(r.log)
}

// Result returns the value the routine completed with.
// It panics with [ErrNotRun] before Run.
func (r *Runner) Result() any {
	r.mustHaveRun()
	return r.result
}

// Dump renders the execution log one yield per line as "index<TAB>value".
func (r *Runner) Dump() string {
	r.mustHaveRun()
	var b strings.Builder
	for i, s := range r.log {
		fmt.Fprintf(&b, "%d\t%s\n", i, describe(s.value))
	}
	return b.String()
}

func (r *Runner) mustHaveRun() {
	if r.phase == Unstarted {
		panic(notRun())
	}
}

func (r *Runner) mustNotHaveRun(method string) {
	if r.phase != Unstarted {
		panic(alreadyRun(method))
	}
}

func values(samples []sample) []any {
	out := make([]any, len(samples))
	for i, s := range samples {
		out[i] = s.value
	}
	return out
}

// describe formats v for logs and reports. Selector effects print as their
// type, since the extractor address says nothing useful.
func describe(v any) string {
	if _, ok := selectorOf(v); ok {
		return fmt.Sprintf("select %T", v)
	}
	return fmt.Sprintf("%#v", v)
}
