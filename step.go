// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"fmt"

	"code.hybscloud.com/kont"
)

// Step is the outcome of advancing a [Routine]: suspended with Value, or,
// when Done, completed with Value.
type Step struct {
	Value any
	Done  bool
}

// Suspended returns the step of a routine paused at v.
func Suspended(v any) Step { return Step{Value: v} }

// Completed returns the step of a routine that finished with v.
func Completed(v any) Step { return Step{Value: v, Done: true} }

// Routine is a cooperative suspend/resume computation.
//
// Start runs it to its first suspension. Resume continues it with a value and
// Fail continues it with an injected failure; Fail may also be the first call,
// in place of Start. A non-nil error means the routine failed and did not
// handle it; the routine is finished afterwards.
type Routine interface {
	Start() (Step, error)
	Resume(v any) (Step, error)
	Fail(err error) (Step, error)
}

// abandoner is implemented by routines holding resources that must be
// released when the runner stops before the routine finishes.
type abandoner interface {
	abandon()
}

// frame is an open [Try] region: the suspension waiting for the region's
// result, and the handler still able to catch a failure (nil once the
// handler itself is running).
type frame struct {
	outer   *kont.Suspension[kont.Erased]
	handler func(error) kont.Expr[kont.Erased]
}

// exprRoutine steps a kont computation one [Yield] at a time.
type exprRoutine struct {
	body    kont.Expr[kont.Erased]
	susp    *kont.Suspension[kont.Erased]
	regions []frame
	started bool
	done    bool
}

func (r *exprRoutine) Start() (Step, error) {
	r.mustBeFresh()
	r.started = true
	return r.advance(kont.StepExpr(r.body))
}

func (r *exprRoutine) Resume(v any) (Step, error) {
	return r.advance(r.pending().Resume(kont.Right[error](v)))
}

func (r *exprRoutine) Fail(err error) (Step, error) {
	if !r.started {
		// Nothing is running that could catch err.
		r.started, r.done = true, true
		return Completed(nil), err
	}
	return r.advance(r.pending().Resume(kont.Left[error, any](err)))
}

func (r *exprRoutine) mustBeFresh() {
	if r.started {
		panic("saga: routine already started")
	}
}

func (r *exprRoutine) pending() *kont.Suspension[kont.Erased] {
	if r.susp == nil {
		if r.done {
			panic("saga: routine already completed")
		}
		panic("saga: routine is not suspended")
	}
	susp := r.susp
	r.susp = nil
	return susp
}

// advance evaluates until the next Yield, the routine's completion, or a
// failure that escapes every open region.
func (r *exprRoutine) advance(result kont.Erased, susp *kont.Suspension[kont.Erased]) (Step, error) {
	for {
		if susp == nil {
			if len(r.regions) == 0 {
				r.done = true
				return Completed(result), nil
			}
			top := r.pop()
			result, susp = top.outer.Resume(regionResult{value: result})
			continue
		}
		switch op := susp.Op().(type) {
		case Yield:
			r.susp = susp
			return Suspended(op.Value), nil
		case raiser:
			susp.Discard()
			err := op.raised()
			handler := r.unwind()
			if handler == nil {
				r.done = true
				return Completed(nil), err
			}
			result, susp = kont.StepExpr(handler(err))
		case regionOpener:
			body, handler := op.region()
			r.regions = append(r.regions, frame{outer: susp, handler: handler})
			result, susp = kont.StepExpr(body)
		default:
			panic(fmt.Errorf("%w: %T", ErrUnhandledEffect, op))
		}
	}
}

func (r *exprRoutine) pop() frame {
	top := r.regions[len(r.regions)-1]
	r.regions = r.regions[:len(r.regions)-1]
	return top
}

// unwind drops regions whose handler is already running, then claims the
// handler of the innermost remaining region. The region stays open so the
// handler's result resumes it.
func (r *exprRoutine) unwind() func(error) kont.Expr[kont.Erased] {
	for len(r.regions) > 0 {
		top := &r.regions[len(r.regions)-1]
		if top.handler != nil {
			h := top.handler
			top.handler = nil
			return h
		}
		r.pop().outer.Discard()
	}
	return nil
}
