// Package tracing collects the steps taken by reversible states.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/revstep/hooking"
	"github.com/sarchlab/revstep/stepping"
)

// A Tracer is told about every step of the domains it is attached to.
type Tracer interface {
	TraceStep(step stepping.Step)
}

// CollectTrace lets tracer observe every step taken by domain. Attaching the
// same tracer to the same domain twice panics.
func CollectTrace(domain hooking.Hookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		h, ok := hook.(*traceHook)
		if ok && h.t == tracer {
			panic(fmt.Sprintf("domain already has tracer %s",
				reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer})
}

type traceHook struct {
	t Tracer
}

// Func forwards step hooks to the tracer.
func (h *traceHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case stepping.HookPosStepForward, stepping.HookPosStepBackward:
		h.t.TraceStep(ctx.Item.(stepping.Step))
	}
}
