// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"runtime"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// handoffCapacity is the bounded capacity of each hand-off queue.
// Driver and routine strictly alternate, so at most one message is in
// flight per direction.
const handoffCapacity = 4

// resumption travels from the runner to the routine goroutine.
type resumption struct {
	value any
	err   error
}

// event travels from the routine goroutine to the runner.
type event struct {
	value     any
	err       error
	done      bool
	panicked  bool
	recovered any
}

// goRoutine runs a plain function on its own goroutine. Each direction is a
// single-producer single-consumer bounded queue; the waiting side backs off
// with iox.Backoff, so only one side makes progress at a time.
type goRoutine struct {
	fn       func(y *Yielder) error
	toDriver lfq.SPSC[event]
	toFn     lfq.SPSC[resumption]
	started  bool
	done     bool

	// abandoned is set once the runner stops driving; a parked routine
	// goroutine exits instead of waiting for a resumption.
	abandoned atomix.Uint32
}

// Yielder is the suspension handle passed to a routine started by [Go].
type Yielder struct {
	g      *goRoutine
	result any
}

// Yield suspends the routine with v and returns the runner's reply, or the
// failure the runner injected.
func (y *Yielder) Yield(v any) (any, error) {
	y.g.emit(event{value: v})
	res := y.g.receive()
	return res.value, res.err
}

// Return sets the value the routine completes with.
func (y *Yielder) Return(v any) {
	y.result = v
}

// Go adapts fn to a [Routine]. fn starts on a new goroutine at the first
// Start and must only call Yield from that goroutine. A non-nil error
// returned by fn is the routine's unhandled failure; a panic in fn is
// re-raised on the goroutine calling Start, Resume, or Fail.
func Go(fn func(y *Yielder) error) Routine {
	g := &goRoutine{fn: fn}
	g.toDriver.Init(handoffCapacity)
	g.toFn.Init(handoffCapacity)
	return g
}

func (g *goRoutine) Start() (Step, error) {
	if g.started {
		panic("saga: routine already started")
	}
	g.started = true
	go g.run()
	return g.await()
}

func (g *goRoutine) Resume(v any) (Step, error) {
	g.mustBeSuspended()
	g.send(resumption{value: v})
	return g.await()
}

func (g *goRoutine) Fail(err error) (Step, error) {
	if !g.started {
		// fn never runs.
		g.started, g.done = true, true
		return Completed(nil), err
	}
	g.mustBeSuspended()
	g.send(resumption{err: err})
	return g.await()
}

func (g *goRoutine) mustBeSuspended() {
	if !g.started || g.done {
		panic("saga: routine is not suspended")
	}
}

// abandon releases a routine goroutine the runner will never resume.
func (g *goRoutine) abandon() {
	g.abandoned.Store(1)
}

func (g *goRoutine) run() {
	y := &Yielder{g: g}
	ev := event{done: true}
	defer func() {
		if p := recover(); p != nil {
			ev = event{done: true, panicked: true, recovered: p}
		}
		if g.abandoned.Load() != 0 {
			return
		}
		g.emit(ev)
	}()
	ev.err = g.fn(y)
	ev.value = y.result
}

// await blocks the runner until the routine suspends or finishes.
func (g *goRoutine) await() (Step, error) {
	var bo iox.Backoff
	for {
		ev, err := g.toDriver.Dequeue()
		if err != nil {
			bo.Wait()
			continue
		}
		if !ev.done {
			return Suspended(ev.value), nil
		}
		g.done = true
		if ev.panicked {
			panic(ev.recovered)
		}
		return Completed(ev.value), ev.err
	}
}

func (g *goRoutine) send(res resumption) {
	var bo iox.Backoff
	for g.toFn.Enqueue(&res) != nil {
		bo.Wait()
	}
}

func (g *goRoutine) emit(ev event) {
	var bo iox.Backoff
	for g.toDriver.Enqueue(&ev) != nil {
		bo.Wait()
	}
}

// receive blocks the routine goroutine until the runner resumes it. An
// abandoned routine's goroutine exits here, running fn's deferred calls.
func (g *goRoutine) receive() resumption {
	var bo iox.Backoff
	for {
		res, err := g.toFn.Dequeue()
		if err == nil {
			return res
		}
		if g.abandoned.Load() != 0 {
			runtime.Goexit()
		}
		bo.Wait()
	}
}
