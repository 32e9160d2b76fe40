// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package saga drives suspend/resume routines ("sagas") to completion with
// pre-registered replies and records every value they yield.
//
// A [Runner] is single-use: register expectations and overrides, call
// [Runner.Run] once, then query the execution log.
//
// # Architecture
//
//   - Routine: any value implementing [Routine] (Start, Resume, Fail). [FromEff]
//     and [FromExpr] adapt [code.hybscloud.com/kont] computations; [Go] adapts a
//     plain function running on its own goroutine with lock-free hand-off via
//     [code.hybscloud.com/lfq].
//   - Registration: [Runner.Expects] with [Expectation.Returns] or
//     [Expectation.Throws]; global overrides [Runner.Returns] and [Runner.Throws];
//     state snapshot [Runner.State].
//   - Stepping: at each suspension the runner resumes with, in order, the global
//     reply, a registered failure, a registered reply, or nothing. The global
//     failure is injected once, as the very first event.
//   - Matching: deep structural equality, except selector effects, which are
//     compared by applying their Selector to the captured state snapshot.
//   - Queries: [Runner.Yielded], [Runner.YieldedAllExpected], [Runner.Report].
//
// # Effects
//
//   - Cont-world: [YieldThen], [YieldBind], [YieldCatch], [Try], [Raise], [Loop].
//   - Expr-world: [ExprYieldThen], [ExprYieldBind], [ExprTry], [ExprLoop].
//     Bridge via [Reify] and [Reflect].
//
// # Errors
//
// Every error carries the "saga: " prefix and wraps one sentinel, so callers
// match with [errors.Is]. Methods without an error result panic on misuse.
// Failures a routine does not handle are returned by [Runner.Run] unchanged.
//
// # Example
//
//	r, _ := saga.New(saga.FromEff(
//		saga.YieldBind(1, func(one any) kont.Eff[string] {
//			return saga.YieldThen(2, kont.Pure("done"))
//		}),
//	))
//	r.Expects(1).Returns("one")
//	r.Expects(2).Returns("two")
//	if err := r.Run(); err != nil {
//		return err
//	}
//	_ = r.YieldedAllExpected() // true
package saga
