package core

import (
	"reflect"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/types"
)

// QualifiedName scopes name under parent
func QualifiedName(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// Load adds a module under parent and broadcasts "load" to it
func (c *Core) Load(m types.Module, parent string) error {
	if m == nil {
		return errors.New(errors.ErrInvalidInput, "module cannot be nil")
	}

	if m.Name() == "" {
		return errors.New(errors.ErrInvalidInput, "module name cannot be empty")
	}

	name := QualifiedName(parent, m.Name())
	if c.modules.Has(name) {
		return errors.Newf(errors.ErrModuleAlreadyLoaded, "module '%s' is already loaded", name).
			WithDetail("module", name)
	}

	if err := c.modules.Register(name, &entry{name: name, module: m, active: true}); err != nil {
		return err
	}
	c.logger.Debug().Str("module", name).Msg("Module loaded")

	_, err := c.HookWith(types.HookLoad, types.HookOptions{Restrict: []string{name}})
	return err
}

// LoadFactory builds a module bound to this registry and loads it
func (c *Core) LoadFactory(factory types.Factory, parent string) error {
	if factory == nil {
		return errors.New(errors.ErrInvalidInput, "module factory cannot be nil")
	}
	return c.Load(factory(c), parent)
}

// Unload broadcasts "unload" to a module and removes it. A disabled module
// is enabled first so it sees a consistent lifecycle.
func (c *Core) Unload(ref interface{}) error {
	e, err := c.resolve(ref)
	if err != nil {
		return err
	}

	if !e.active {
		if err := c.Enable(e.name); err != nil {
			return err
		}
	}

	_, hookErr := c.HookWith(types.HookUnload, types.HookOptions{Restrict: []string{e.name}})

	if err := c.modules.Remove(e.name); err != nil {
		return err
	}
	c.logger.Debug().Str("module", e.name).Msg("Module unloaded")
	return hookErr
}

// Enable reactivates a disabled module and broadcasts "enable" to it
func (c *Core) Enable(ref interface{}) error {
	e, err := c.resolve(ref)
	if err != nil {
		return err
	}
	if e.active {
		return nil
	}

	e.active = true
	c.logger.Debug().Str("module", e.name).Msg("Module enabled")
	_, err = c.HookWith(types.HookEnable, types.HookOptions{Restrict: []string{e.name}})
	return err
}

// Disable broadcasts "disable" to a module, then deactivates it. Disabled
// modules receive no hooks and answer no procs.
func (c *Core) Disable(ref interface{}) error {
	e, err := c.resolve(ref)
	if err != nil {
		return err
	}
	if !e.active {
		return nil
	}

	if _, err := c.HookWith(types.HookDisable, types.HookOptions{Restrict: []string{e.name}}); err != nil {
		return err
	}
	e.active = false
	c.logger.Debug().Str("module", e.name).Msg("Module disabled")
	return nil
}

// Loaded returns every loaded module name in load order
func (c *Core) Loaded() []string {
	return c.modules.List()
}

// Enabled returns the active module names in load order
func (c *Core) Enabled() []string {
	var names []string
	for _, e := range c.modules.Items() {
		if e.active {
			names = append(names, e.name)
		}
	}
	return names
}

// IsLoaded reports whether ref names a loaded module
func (c *Core) IsLoaded(ref interface{}) bool {
	_, err := c.resolve(ref)
	return err == nil
}

// IsEnabled reports whether ref names an active module
func (c *Core) IsEnabled(ref interface{}) (bool, error) {
	e, err := c.resolve(ref)
	if err != nil {
		return false, err
	}
	return e.active, nil
}

// Module returns a loaded module
func (c *Core) Module(ref interface{}) (types.Module, error) {
	e, err := c.resolve(ref)
	if err != nil {
		return nil, err
	}
	return e.module, nil
}

// OfType matches the first loaded module whose dynamic type is T
func OfType[T types.Module]() types.Matcher {
	return func(m types.Module) bool {
		_, ok := m.(T)
		return ok
	}
}

// resolve finds the entry for a reference: a qualified name, a module
// instance or a matcher
func (c *Core) resolve(ref interface{}) (*entry, error) {
	switch r := ref.(type) {
	case string:
		e, err := c.modules.Get(r)
		if err != nil {
			return nil, offlineError(r)
		}
		return e, nil

	case types.Module:
		for _, e := range c.modules.Items() {
			if sameModule(e.module, r) {
				return e, nil
			}
		}
		return nil, offlineError(r.Name())

	case types.Matcher:
		return c.match(r)

	case func(types.Module) bool:
		return c.match(r)

	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "expected a module, a module name or a matcher, got '%T'", ref)
	}
}

func (c *Core) match(matcher types.Matcher) (*entry, error) {
	if matcher == nil {
		return nil, errors.New(errors.ErrInvalidInput, "matcher cannot be nil")
	}
	for _, e := range c.modules.Items() {
		if matcher(e.module) {
			return e, nil
		}
	}
	return nil, offlineError("<matcher>")
}

// sameModule compares module identity without panicking on
// non-comparable module types
func sameModule(a, b types.Module) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func offlineError(name string) error {
	return errors.Newf(errors.ErrModuleOffline, "module '%s' is not loaded", name).
		WithDetail("module", name)
}
