// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"fmt"
	"testing"
)

// Asserter receives one check per expectation from [Runner.Report].
type Asserter interface {
	Assert(ok bool, label string) bool
}

// AsserterFunc adapts a function to [Asserter].
type AsserterFunc func(ok bool, label string) bool

// Assert calls f(ok, label).
func (f AsserterFunc) Assert(ok bool, label string) bool { return f(ok, label) }

// truthAsserter adapts testify's *assert.Assertions and anything shaped like it.
type truthAsserter struct {
	t interface {
		True(value bool, msgAndArgs ...interface{}) bool
	}
}

func (a truthAsserter) Assert(ok bool, label string) bool {
	return a.t.True(ok, label)
}

// tbAsserter reports failed checks through testing.TB.Errorf.
type tbAsserter struct {
	tb testing.TB
}

func (a tbAsserter) Assert(ok bool, label string) bool {
	a.tb.Helper()
	if !ok {
		a.tb.Errorf("%s", label)
	}
	return ok
}

// asserterOf resolves reporter by shape: an [Asserter], a value with testify's
// True(bool, ...interface{}) bool method, or a testing.TB.
func asserterOf(reporter any) (Asserter, error) {
	switch v := reporter.(type) {
	case Asserter:
		return v, nil
	case interface {
		True(value bool, msgAndArgs ...interface{}) bool
	}:
		return truthAsserter{t: v}, nil
	case testing.TB:
		return tbAsserter{tb: v}, nil
	}
	return nil, fmt.Errorf("%w, got %T", ErrReporterShape, reporter)
}

// RunWith runs the routine like [Runner.Run] and then reports every
// expectation to reporter like [Runner.Report]. The reporter shape is checked
// before running, so a bad reporter does not consume the run.
func (r *Runner) RunWith(reporter any) error {
	a, err := asserterOf(reporter)
	if err != nil {
		return err
	}
	if err := r.Run(); err != nil {
		return err
	}
	r.report(a)
	return nil
}

// Report asserts, for each expectation in declaration order, that the routine
// yielded it, and returns whether all were yielded. It fails with
// [ErrReporterShape] for an unsupported reporter and with [ErrNotRun] before
// Run.
func (r *Runner) Report(reporter any) (bool, error) {
	a, err := asserterOf(reporter)
	if err != nil {
		return false, err
	}
	if r.phase == Unstarted {
		return false, notRun()
	}
	return r.report(a), nil
}

func (r *Runner) report(a Asserter) bool {
	all := true
	for _, e := range r.expectations {
		ok := a.Assert(contains(r.log, e), fmt.Sprintf("yielded expected value %s", describe(e.value)))
		all = all && ok
	}
	return all
}
