// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
)

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// replyOrRaise returns the reply carried by current, or the raise
// computation for an injected failure.
func replyOrRaise[B any](current kont.Erased) (any, kont.Expr[B], bool) {
	r := current.(Reply)
	if err, ok := r.GetLeft(); ok {
		return nil, ExprRaise[B](err), false
	}
	reply, _ := r.GetRight()
	return reply, kont.Expr[B]{}, true
}

func yieldBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	reply, failed, ok := replyOrRaise[B](current)
	if !ok {
		return kont.Erased(failed.Value), failed.Frame
	}
	result := data.(func(any) kont.Expr[B])(reply)
	return kont.Erased(result.Value), result.Frame
}

// ExprYieldBind yields v and passes the runner's reply to f.
// Fuses ExprPerform(Yield{Value: v}) + ExprBind; an injected failure is raised.
func ExprYieldBind[B any](v any, f func(any) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = yieldBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Yield{Value: v}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func yieldThenUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	_, failed, ok := replyOrRaise[B](current)
	if !ok {
		return kont.Erased(failed.Value), failed.Frame
	}
	next := data.(kont.Expr[B])
	return kont.Erased(next.Value), next.Frame
}

// ExprYieldThen yields v, discards the reply, and continues with next.
// Fuses ExprPerform(Yield{Value: v}) + ExprThen; an injected failure is raised.
func ExprYieldThen[B any](v any, next kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = next
	bf.Unwind = yieldThenUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Yield{Value: v}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}
