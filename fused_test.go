// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/saga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprYieldBind(t *testing.T) {
	routine := saga.FromExpr(saga.ExprYieldBind(1, func(one any) kont.Expr[string] {
		return saga.ExprYieldBind(2, func(two any) kont.Expr[string] {
			return kont.ExprReturn(one.(string) + "+" + two.(string))
		})
	}))
	r, _ := saga.New(routine)
	r.Expects(1).Returns("one")
	r.Expects(2).Returns("two")
	require.NoError(t, r.Run())

	assert.Equal(t, []any{1, 2}, r.Log())
	assert.Equal(t, "one+two", r.Result())
}

func TestExprYieldThen(t *testing.T) {
	routine := saga.FromExpr(saga.ExprYieldThen("a", saga.ExprYieldThen("b", kont.ExprReturn(3))))
	r, _ := saga.New(routine)
	r.Returns("ignored")
	require.NoError(t, r.Run())

	assert.Equal(t, []any{"a", "b"}, r.Log())
	assert.Equal(t, 3, r.Result())
}

func TestExprYieldRaisesInjectedFailure(t *testing.T) {
	boom := errors.New("boom")
	routine := saga.FromExpr(saga.ExprYieldThen("a", saga.ExprYieldThen("b", kont.ExprReturn(0))))
	r, _ := saga.New(routine)
	r.Expects("a").Throws(boom)

	assert.Same(t, boom, r.Run())
	assert.Equal(t, []any{"a"}, r.Log())
}

func TestExprTry(t *testing.T) {
	boom := errors.New("boom")
	routine := saga.FromExpr(saga.ExprTry(
		saga.ExprYieldBind("ask", func(any) kont.Expr[string] { return kont.ExprReturn("granted") }),
		func(err error) kont.Expr[string] {
			return saga.ExprYieldThen("caught", kont.ExprReturn("handled "+err.Error()))
		},
	))
	r, _ := saga.New(routine)
	r.Expects("ask").Throws(boom)
	require.NoError(t, r.Run())

	assert.Equal(t, []any{"ask", "caught"}, r.Log())
	assert.Equal(t, "handled boom", r.Result())
}

func TestExprRaise(t *testing.T) {
	boom := errors.New("boom")
	routine := saga.FromExpr(saga.ExprYieldThen("a", saga.ExprRaise[int](boom)))
	r, _ := saga.New(routine)

	assert.Same(t, boom, r.Run())
	assert.Equal(t, []any{"a"}, r.Log())
}

func TestContAndExprAgree(t *testing.T) {
	cont := saga.FromEff(saga.YieldBind("x", func(v any) kont.Eff[any] {
		return saga.YieldThen(v, kont.Pure[any](v))
	}))
	expr := saga.FromExpr(saga.ExprYieldBind("x", func(v any) kont.Expr[any] {
		return saga.ExprYieldThen(v, kont.ExprReturn[any](v))
	}))

	var logs [][]any
	for _, routine := range []saga.Routine{cont, expr} {
		r, _ := saga.New(routine)
		r.Expects("x").Returns("y")
		require.NoError(t, r.Run())
		logs = append(logs, r.Log())
		assert.Equal(t, "y", r.Result())
	}
	assert.Equal(t, logs[0], logs[1])
}

func TestReifyReflectRoundTrip(t *testing.T) {
	original := saga.YieldBind(1, func(v any) kont.Eff[int] {
		return kont.Pure(v.(int) * 2)
	})
	roundTrip := saga.Reflect(saga.Reify(original))

	r, _ := saga.New(saga.FromEff(roundTrip))
	r.Expects(1).Returns(21)
	require.NoError(t, r.Run())
	assert.Equal(t, 42, r.Result())
}
