// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
)

// Reply is the resumption value of a [Yield]: Right carries the reply the
// runner chose, Left carries an injected failure.
type Reply = kont.Either[error, any]

// Yield is the effect operation for suspending with a value.
// Perform(Yield{Value: v}) hands v to the runner and resumes with a [Reply].
type Yield struct {
	kont.Phantom[Reply]
	Value any
}

// raise aborts the current computation with err. It is never resumed:
// the routine adapter discards the suspension and unwinds to the innermost
// open [Try] region, or out of the routine.
type raise[B any] struct {
	kont.Phantom[B]
	err error
}

func (o raise[B]) raised() error { return o.err }

// raiser is the structural interface for raise operations of any result type.
type raiser interface {
	raised() error
}

// regionResult boxes the value a [Try] region completed with, so resuming
// the enclosing suspension never passes a nil kont.Resumed.
type regionResult struct {
	value kont.Erased
}

// tryOp opens a failure-handling region. The adapter steps body as a nested
// computation; a raise inside it is routed to handler.
type tryOp[B any] struct {
	kont.Phantom[regionResult]
	body    kont.Expr[B]
	handler func(error) kont.Expr[B]
}

func (o tryOp[B]) region() (kont.Expr[kont.Erased], func(error) kont.Expr[kont.Erased]) {
	handler := o.handler
	return erase(o.body), func(err error) kont.Expr[kont.Erased] {
		return erase(handler(err))
	}
}

// regionOpener is the structural interface for tryOp of any result type.
type regionOpener interface {
	region() (kont.Expr[kont.Erased], func(error) kont.Expr[kont.Erased])
}

// erase forgets the result type of m so computations of different result
// types can share one stepping stack.
func erase[A any](m kont.Expr[A]) kont.Expr[kont.Erased] {
	return kont.ExprMap(m, func(a A) kont.Erased { return a })
}

// unerase returns v as a B, or the zero B when v is nil.
func unerase[B any](v kont.Erased) B {
	b, _ := v.(B)
	return b
}
