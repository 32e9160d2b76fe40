// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga_test

import (
	"fmt"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/saga"
)

// call records one resumption a recorder received.
type call struct {
	kind  string // "start", "resume" or "fail"
	value any
	err   error
}

// recorder is a hand-rolled Routine that yields a fixed list of values and
// records how it was resumed. It absorbs injected failures.
type recorder struct {
	yields []any
	calls  []call
	next   int
}

func newRecorder(yields ...any) *recorder {
	return &recorder{yields: yields}
}

func (p *recorder) Start() (saga.Step, error) {
	p.calls = append(p.calls, call{kind: "start"})
	return p.step(), nil
}

func (p *recorder) Resume(v any) (saga.Step, error) {
	p.calls = append(p.calls, call{kind: "resume", value: v})
	return p.step(), nil
}

func (p *recorder) Fail(err error) (saga.Step, error) {
	p.calls = append(p.calls, call{kind: "fail", err: err})
	return p.step(), nil
}

func (p *recorder) step() saga.Step {
	if p.next >= len(p.yields) {
		return saga.Completed(nil)
	}
	v := p.yields[p.next]
	p.next++
	return saga.Suspended(v)
}

func (p *recorder) String() string {
	return fmt.Sprintf("recorder%v", p.calls)
}

// emptySaga completes without yielding.
func emptySaga() saga.Routine {
	return saga.FromEff(kont.Pure(struct{}{}))
}

// countToThree yields 1, 2 and 3.
func countToThree() saga.Routine {
	return saga.FromEff(
		saga.YieldThen(1, saga.YieldThen(2, saga.YieldThen(3, kont.Pure(struct{}{})))),
	)
}

// echo yields question, then yields whatever the runner answered.
func echo(question any) saga.Routine {
	return saga.FromEff(saga.YieldBind(question, func(answer any) kont.Eff[struct{}] {
		return saga.YieldThen(answer, kont.Pure(struct{}{}))
	}))
}

// sentinel is a comparable marker value, unequal to every other sentinel.
type sentinel struct{ name string }
