// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

// Expectation is a value declared through [Runner.Expects]. At most one
// reply, Returns or Throws, may be attached to it.
type Expectation struct {
	r        *Runner
	key      sample
	resolved string
}

// Expects declares that the routine should yield v and returns the handle for
// attaching a reply. v is matched under the state snapshot current at this
// call. It panics with [ErrAlreadyRun] after Run.
func (r *Runner) Expects(v any) *Expectation {
	r.mustNotHaveRun("Expects")
	key := sample{value: v, state: r.state}
	r.expectations = append(r.expectations, key)
	return &Expectation{r: r, key: key}
}

// Returns resumes the routine with reply whenever it yields a value matching
// the expectation. It panics with [ErrChained] if a reply is already attached.
func (e *Expectation) Returns(reply any) {
	e.mustBeOpen("Returns")
	e.resolved = "Returns"
	e.r.replies.add(e.key, reply)
}

// Throws injects err whenever the routine yields a value matching the
// expectation. It panics with [ErrChained] if a reply is already attached.
func (e *Expectation) Throws(err error) {
	e.mustBeOpen("Throws")
	mustFailWith(err)
	e.resolved = "Throws"
	e.r.failures.add(e.key, err)
}

// mustBeOpen rejects a reply after Run or after another reply.
func (e *Expectation) mustBeOpen(method string) {
	e.r.mustNotHaveRun(method)
	if e.resolved != "" {
		panic(chainedAfter(e.resolved))
	}
}

// Returns resumes the routine with reply at every suspension, ahead of any
// registered reply or failure. It may be set once.
func (r *Runner) Returns(reply any) {
	r.mustNotHaveRun("Returns")
	if r.alwaysReturn != nil {
		panic(chainedAfter("Returns"))
	}
	r.alwaysReturn = &override{reply: reply}
}

// Throws injects err as the routine's very first event, in place of starting
// it. It may be set once.
func (r *Runner) Throws(err error) {
	r.mustNotHaveRun("Throws")
	mustFailWith(err)
	if r.alwaysThrow != nil {
		panic(chainedAfter("Throws"))
	}
	r.alwaysThrow = &override{err: err}
}

// State replaces the external state snapshot that selector effects are
// evaluated against. Expectations capture the snapshot current when declared.
func (r *Runner) State(snapshot any) {
	r.mustNotHaveRun("State")
	r.state.value = snapshot
}

func mustFailWith(err error) {
	if err == nil {
		panic(ErrNilFailure)
	}
}
