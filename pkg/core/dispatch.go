package core

import (
	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/types"
)

// Hook broadcasts a hook to every active module and returns the latest
// non-nil answer
func (c *Core) Hook(name string, args ...interface{}) (interface{}, error) {
	return c.HookWith(name, types.HookOptions{}, args...)
}

// HookWith broadcasts a hook with an explicit filter and restriction.
// Modules without a handler contribute an absent result. The first handler
// error stops the broadcast.
func (c *Core) HookWith(name string, opts types.HookOptions, args ...interface{}) (interface{}, error) {
	filter := opts.Filter
	if filter == nil {
		filter = types.Latest
	}

	var restrict map[string]bool
	if opts.Restrict != nil {
		restrict = make(map[string]bool, len(opts.Restrict))
		for _, n := range opts.Restrict {
			restrict[n] = true
		}
	}

	results := types.Results{}
	for _, e := range c.modules.Items() {
		if !e.active || (restrict != nil && !restrict[e.name]) {
			continue
		}

		handler, ok := e.module.Handlers().HookFor(name)
		if !ok {
			results = append(results, types.Result{Module: e.name})
			continue
		}

		value, err := handler(args...)
		if err != nil {
			c.logger.Debug().Err(err).Str("hook", name).Str("module", e.name).Msg("Hook failed")
			return nil, err
		}
		results = append(results, types.Result{Module: e.name, Value: value, Handled: true})
	}

	c.logger.Trace().Str("hook", name).Int("results", len(results)).Msg("Hook dispatched")
	return filter(results), nil
}

// Proc runs the proc handler of the most recently loaded active module that
// declares it
func (c *Core) Proc(name string, args ...interface{}) (interface{}, error) {
	items := c.modules.Items()
	for i := len(items) - 1; i >= 0; i-- {
		e := items[i]
		if !e.active {
			continue
		}

		handler, ok := e.module.Handlers().ProcFor(name)
		if !ok {
			continue
		}

		c.logger.Trace().Str("proc", name).Str("module", e.name).Msg("Proc dispatched")
		return handler(args...)
	}

	return nil, errors.Newf(errors.ErrCommandNotFound, "command '%s' not found", name).
		WithDetail("command", name)
}
