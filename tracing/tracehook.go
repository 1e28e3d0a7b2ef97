package tracing

import (
	"fmt"
	"reflect"

	"github.com/yokanlab/yokan/sim"
)

// CollectTrace lets the tracer collect traces from a domain, typically a
// Simulator. Attaching the same tracer to the same domain twice panics.
func CollectTrace(domain sim.Hookable, tracer Tracer) {
	hooks := domain.Hooks()
	for _, hook := range hooks {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain already has tracer %s", reflect.TypeOf(tracer)))
		}
	}

	h := traceHook{t: tracer}
	domain.AcceptHook(&h)
}

// A traceHook is a hook that turns event lifecycle hooks into traces.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered.
func (h *traceHook) Func(ctx sim.HookCtx) {
	info, ok := ctx.Item.(sim.EventInfo)
	if !ok {
		return
	}

	switch ctx.Pos {
	case sim.HookPosSchedule:
		h.t.EventScheduled(traceOf(info, DispositionPending))
	case sim.HookPosAfterEvent:
		h.t.EventFired(traceOf(info, DispositionFired))
	case sim.HookPosDestroy:
		h.t.EventFired(traceOf(info, DispositionDestroy))
	case sim.HookPosCancel:
		h.t.EventCancelled(traceOf(info, DispositionCancelled))
	}
}

func traceOf(info sim.EventInfo, disposition string) EventTrace {
	return EventTrace{
		UID:         uint64(info.UID),
		Context:     info.Context,
		ScheduledAt: info.ScheduledAt,
		Time:        info.Time,
		Disposition: disposition,
		Where:       info.Where,
	}
}
