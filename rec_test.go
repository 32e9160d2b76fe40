// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/saga"
)

// countdown yields n, n-1, ..., 1 and completes with the sum of the replies.
func countdown(n int) kont.Eff[int] {
	type state struct{ n, sum int }
	return saga.Loop(state{n: n}, func(s state) kont.Eff[kont.Either[state, int]] {
		if s.n == 0 {
			return kont.Pure(kont.Right[state](s.sum))
		}
		return saga.YieldBind(s.n, func(reply any) kont.Eff[kont.Either[state, int]] {
			add, _ := reply.(int)
			return kont.Pure(kont.Left[state, int](state{n: s.n - 1, sum: s.sum + add}))
		})
	})
}

func TestLoopCountdown(t *testing.T) {
	r, _ := saga.New(saga.FromEff(countdown(3)))
	r.Returns(10)
	if err := r.Run(); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	log := r.Log()
	if len(log) != 3 || log[0] != 3 || log[2] != 1 {
		t.Fatalf("log got %v, want [3 2 1]", log)
	}
	if r.Result() != 30 {
		t.Fatalf("result got %v, want 30", r.Result())
	}
}

func TestLoopZeroIterations(t *testing.T) {
	r, _ := saga.New(saga.FromEff(countdown(0)))
	if err := r.Run(); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(r.Log()) != 0 {
		t.Fatalf("log got %v, want empty", r.Log())
	}
	if r.Result() != 0 {
		t.Fatalf("result got %v, want 0", r.Result())
	}
}

func TestExprLoop(t *testing.T) {
	loop := saga.ExprLoop(0, func(i int) kont.Expr[kont.Either[int, string]] {
		if i == 2 {
			return kont.ExprReturn(kont.Right[int]("done"))
		}
		return saga.ExprYieldThen(i, kont.ExprReturn(kont.Left[int, string](i+1)))
	})
	r, _ := saga.New(saga.FromExpr(loop))
	if err := r.Run(); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !r.Yielded(0) || !r.Yielded(1) || r.Yielded(2) {
		t.Fatalf("log got %v, want [0 1]", r.Log())
	}
	if r.Result() != "done" {
		t.Fatalf("result got %v, want done", r.Result())
	}
}
