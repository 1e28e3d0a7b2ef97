package sim

import (
	"log"
)

// EventLogger is a hook that prints a line for every event fired.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger returns a new EventLogger which will write into the logger
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger
	return h
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent && ctx.Pos != HookPosDestroy {
		return
	}

	info, ok := ctx.Item.(EventInfo)
	if !ok {
		return
	}

	switch {
	case info.Where != "":
		h.Logger.Printf("%s, uid %d -> %s", info.Time, info.UID, info.Where)
	case info.Context != NoContext:
		h.Logger.Printf("%s, uid %d, ctx %d", info.Time, info.UID, info.Context)
	default:
		h.Logger.Printf("%s, uid %d", info.Time, info.UID)
	}
}
