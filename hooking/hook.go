// Package hooking lets instrumentation observe a domain without the domain
// knowing who is watching.
package hooking

// HookPos names the place in a domain's lifecycle where a hook fires.
type HookPos struct {
	Name string
}

// HookCtx describes one hook invocation.
type HookCtx struct {
	// Domain is the object invoking the hook.
	Domain Hookable

	// Pos is where the hook is fired from.
	Pos *HookPos

	// Item is the subject of the invocation, for example a step record.
	Item any

	// Detail is optional extra data. May be nil.
	Detail any
}

// Hookable is implemented by objects that accept hooks.
type Hookable interface {
	// AcceptHook registers a hook. Hooks are registered while the domain is
	// being configured and are never removed.
	AcceptHook(hook Hook)

	// NumHooks returns the number of registered hooks.
	NumHooks() int

	// Hooks returns the registered hooks in registration order.
	Hooks() []Hook

	// InvokeHook calls every registered hook with ctx.
	InvokeHook(ctx HookCtx)
}

// Hook is invoked by a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function into a Hook. A HookFunc value is not
// comparable, so the duplicate check in AcceptHook does not apply to it.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase implements Hookable and is meant to be embedded.
type HookableBase struct {
	hookList []Hook
}

// NewHookableBase creates a HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{hookList: make([]Hook, 0)}
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns the registered hooks.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); !isFunc {
		for _, existing := range h.hookList {
			if _, existingIsFunc := existing.(HookFunc); existingIsFunc {
				continue
			}

			if existing == hook {
				panic("duplicated hook")
			}
		}
	}

	h.hookList = append(h.hookList, hook)
}

// InvokeHook calls every registered hook in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
