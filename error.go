// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
)

// Raise fails the saga with err. The innermost enclosing [Try] handler
// receives it; without one, err propagates out of the routine and
// [Runner.Run] returns it unchanged.
func Raise[B any](err error) kont.Eff[B] {
	return kont.Perform(raise[B]{err: err})
}

// ExprRaise is the Expr-world [Raise].
func ExprRaise[B any](err error) kont.Expr[B] {
	return kont.ExprPerform(raise[B]{err: err})
}

// Try runs body as a failure-handling region. A failure raised anywhere in
// body, including one injected at a [YieldBind] inside it, abandons the rest
// of body and continues with handler. The region yields whatever body or
// handler completes with.
func Try[B any](body kont.Eff[B], handler func(error) kont.Eff[B]) kont.Eff[B] {
	op := tryOp[B]{
		body: Reify(body),
		handler: func(err error) kont.Expr[B] {
			return Reify(handler(err))
		},
	}
	return kont.Bind(kont.Perform(op), func(r regionResult) kont.Eff[B] {
		return kont.Pure(unerase[B](r.value))
	})
}

// ExprTry is the Expr-world [Try].
func ExprTry[B any](body kont.Expr[B], handler func(error) kont.Expr[B]) kont.Expr[B] {
	op := tryOp[B]{body: body, handler: handler}
	return kont.ExprMap(kont.ExprPerform(op), func(r regionResult) B {
		return unerase[B](r.value)
	})
}
