// Package core implements carton's module registry.
//
// A Core holds an ordered list of loaded modules. Modules never call each
// other directly; they cooperate through the registry:
//
//   - hooks are broadcast to every active module in load order and their
//     answers are aggregated by a filter (Latest by default)
//   - procs are answered by exactly one module, the most recently loaded
//     active module that declares the proc, so later modules override
//     earlier ones
//   - resources (usually files) are claimed with Acquire and Release so two
//     modules never manage the same file
//
// Lifecycle hooks ("load", "unload", "enable", "disable") are broadcast
// restricted to the module concerned.
//
// # Process context
//
// Open creates the instance lock file in the state directory, loads the
// built-in modules and every registered extension, and disables modules
// named in the settings. Shutdown unloads everything in load order and
// removes the lock file; callers defer it on every exit path.
//
//	c, err := core.Open(core.Options{})
//	if err != nil {
//	    return err
//	}
//	defer c.Shutdown()
//
//	value, err := c.Proc("get", types.GetRequest{Path: []string{"editor"}})
package core
