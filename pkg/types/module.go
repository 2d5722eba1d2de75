package types

import (
	"fmt"
	"sort"
	"strings"
)

// HandlerPrefix is stripped from handler names at registration, so a handler
// declared as "on_load" answers the "load" hook.
const HandlerPrefix = "on_"

// Lifecycle hooks broadcast by the registry
const (
	HookLoad    = "load"
	HookUnload  = "unload"
	HookEnable  = "enable"
	HookDisable = "disable"
)

// Handler responds to a hook or a proc
type Handler func(args ...interface{}) (interface{}, error)

// Module is a unit loaded into the registry. It only exposes its name and
// the handlers it registered when it was built.
type Module interface {
	Name() string
	Handlers() *HandlerTable
}

// Factory builds a module bound to a host
type Factory func(host Host) Module

// Matcher selects a loaded module, used to reference modules by type
type Matcher func(Module) bool

// Host is the registry as seen from inside a module
type Host interface {
	Hook(name string, args ...interface{}) (interface{}, error)
	HookWith(name string, opts HookOptions, args ...interface{}) (interface{}, error)
	Proc(name string, args ...interface{}) (interface{}, error)

	Acquire(requester interface{}, resource string) error
	Release(requester interface{}, resource string) error

	Paths() Pather
	Facts() Facts
	FS() FS
}

// HandlerTable maps hook and proc names to handlers
type HandlerTable struct {
	hooks map[string]Handler
	procs map[string]Handler
}

// NewHandlerTable creates an empty handler table
func NewHandlerTable() *HandlerTable {
	return &HandlerTable{
		hooks: make(map[string]Handler),
		procs: make(map[string]Handler),
	}
}

// Hook registers handler for every given hook name
func (t *HandlerTable) Hook(handler Handler, names ...string) *HandlerTable {
	register(t.hooks, "hook", handler, names)
	return t
}

// Proc registers handler for every given proc name
func (t *HandlerTable) Proc(handler Handler, names ...string) *HandlerTable {
	register(t.procs, "proc", handler, names)
	return t
}

// HookFor returns the handler registered for a hook
func (t *HandlerTable) HookFor(name string) (Handler, bool) {
	if t == nil {
		return nil, false
	}
	h, ok := t.hooks[name]
	return h, ok
}

// ProcFor returns the handler registered for a proc
func (t *HandlerTable) ProcFor(name string) (Handler, bool) {
	if t == nil {
		return nil, false
	}
	h, ok := t.procs[name]
	return h, ok
}

// HookNames returns the registered hook names, sorted
func (t *HandlerTable) HookNames() []string {
	return sortedKeys(t.hooks)
}

// ProcNames returns the registered proc names, sorted
func (t *HandlerTable) ProcNames() []string {
	return sortedKeys(t.procs)
}

// NormalizeHandlerName strips the conventional handler prefix
func NormalizeHandlerName(name string) string {
	return strings.TrimPrefix(name, HandlerPrefix)
}

// register panics on invalid registrations since these are programming
// errors caught when the module is built
func register(table map[string]Handler, kind string, handler Handler, names []string) {
	if handler == nil {
		panic(fmt.Sprintf("%s handler for %v is nil", kind, names))
	}
	if len(names) == 0 {
		panic(fmt.Sprintf("%s handler registered without a name", kind))
	}
	for _, name := range names {
		name = NormalizeHandlerName(name)
		if name == "" {
			panic(fmt.Sprintf("%s handler name cannot be empty", kind))
		}
		table[name] = handler
	}
}

func sortedKeys(m map[string]Handler) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
