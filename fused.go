// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
)

// YieldBind yields v and passes the runner's reply to f.
// An injected failure skips f and is raised instead.
func YieldBind[B any](v any, f func(any) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Yield{Value: v}), func(r Reply) kont.Eff[B] {
		if err, ok := r.GetLeft(); ok {
			return Raise[B](err)
		}
		reply, _ := r.GetRight()
		return f(reply)
	})
}

// YieldThen yields v, discards the reply, and continues with next.
// An injected failure is raised instead.
func YieldThen[B any](v any, next kont.Eff[B]) kont.Eff[B] {
	return YieldBind(v, func(any) kont.Eff[B] { return next })
}

// YieldCatch yields v and continues with onReply, or with onFailure when the
// runner injects a failure at this suspension.
func YieldCatch[B any](v any, onReply func(any) kont.Eff[B], onFailure func(error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Yield{Value: v}), func(r Reply) kont.Eff[B] {
		if err, ok := r.GetLeft(); ok {
			return onFailure(err)
		}
		reply, _ := r.GetRight()
		return onReply(reply)
	})
}
