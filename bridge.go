// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
)

// Reify converts a Cont-world saga to Expr-world.
func Reify[A any](m kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(m)
}

// Reflect converts an Expr-world saga to Cont-world.
func Reflect[A any](m kont.Expr[A]) kont.Eff[A] {
	return kont.Reflect(m)
}

// FromEff adapts a Cont-world saga to a [Routine].
// The computation may only perform [Yield] and the operations behind
// [Raise] and [Try]; anything else panics with [ErrUnhandledEffect].
func FromEff[R any](m kont.Eff[R]) Routine {
	return FromExpr(Reify(m))
}

// FromExpr adapts an Expr-world saga to a [Routine].
func FromExpr[R any](m kont.Expr[R]) Routine {
	return &exprRoutine{body: erase(m)}
}
