package core

import (
	"fmt"
	"os"

	"github.com/arthur-debert/carton/pkg/config"
	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/facts"
	"github.com/arthur-debert/carton/pkg/filesystem"
	"github.com/arthur-debert/carton/pkg/locks"
	"github.com/arthur-debert/carton/pkg/logging"
	"github.com/arthur-debert/carton/pkg/modules"
	"github.com/arthur-debert/carton/pkg/paths"
	"github.com/arthur-debert/carton/pkg/registry"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Core
type Options struct {
	// Root relocates the repository and state directories, see paths.New
	Root string

	// Paths overrides Root when set
	Paths paths.Paths

	// Settings are loaded from the config directory when nil
	Settings *config.Settings

	// Overrides are applied on top of loaded settings
	Overrides map[string]interface{}

	// Disabled names modules to load disabled, in addition to settings
	Disabled []string

	// FS defaults to the OS filesystem
	FS types.FS
}

// entry is a loaded module. Disabled modules keep their position.
type entry struct {
	name   string
	module types.Module
	active bool
}

// Core is the module registry. It implements types.Host.
type Core struct {
	paths    paths.Paths
	settings *config.Settings
	fs       types.FS
	modules  registry.Registry[*entry]
	locks    *locks.Table
	logger   zerolog.Logger

	disabled []string
	lockFile string
	closed   bool
}

var _ types.Host = (*Core)(nil)

// New creates an empty registry. No module is loaded and no lock file is
// created; see Open for the full process context.
func New(opts Options) (*Core, error) {
	p := opts.Paths
	if p == nil {
		var err error
		if p, err = paths.New(opts.Root); err != nil {
			return nil, err
		}
	}

	settings := opts.Settings
	if settings == nil {
		var err error
		if settings, err = config.Load(p.ConfigDir(), opts.Overrides); err != nil {
			return nil, err
		}
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	return &Core{
		paths:    p,
		settings: settings,
		fs:       fs,
		modules:  registry.New[*entry](),
		locks:    locks.New(),
		logger:   logging.GetLogger("core"),
		disabled: append(append([]string{}, settings.Modules.Disabled...), opts.Disabled...),
	}, nil
}

// Open creates a registry that owns the state directory: it creates the
// directories and the instance lock file, then loads the built-in modules
// followed by every registered extension.
func Open(opts Options) (*Core, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}

	if err := c.paths.EnsureDirs(c.fs); err != nil {
		return nil, err
	}
	if err := c.acquireInstance(); err != nil {
		return nil, err
	}

	if err := c.loadAll(); err != nil {
		if shutdownErr := c.Shutdown(); shutdownErr != nil {
			c.logger.Error().Err(shutdownErr).Msg("Shutdown after failed start")
		}
		return nil, err
	}
	return c, nil
}

func (c *Core) acquireInstance() error {
	lock := c.paths.LockFile()
	pid := []byte(fmt.Sprintf("%d\n", os.Getpid()))
	if err := c.fs.CreateExclusive(lock, pid, 0644); err != nil {
		if os.IsExist(err) {
			return errors.Newf(errors.ErrInstanceLocked, "file exists: '%s'", lock).
				WithDetail("path", lock)
		}
		return errors.Wrapf(err, errors.ErrStateWrite, "cannot create lock file '%s'", lock)
	}
	c.lockFile = lock
	c.logger.Debug().Str("path", lock).Msg("Instance lock acquired")
	return nil
}

func (c *Core) loadAll() error {
	for _, factory := range modules.Builtins(c.settings) {
		if err := c.LoadFactory(factory, ""); err != nil {
			return err
		}
	}

	for _, ext := range modules.Extensions() {
		for _, factory := range ext.Factories {
			if err := c.LoadFactory(factory, ext.Name); err != nil {
				return err
			}
		}
	}

	for _, name := range c.disabled {
		if !c.IsLoaded(name) {
			c.logger.Warn().Str("module", name).Msg("Cannot disable unknown module")
			continue
		}
		if err := c.Disable(name); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown unloads every module in load order and removes the instance
// lock file. Calling it again does nothing. The first error is returned
// after every module had a chance to unload.
func (c *Core) Shutdown() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var first error
	for _, name := range c.modules.List() {
		if err := c.Unload(name); err != nil {
			c.logger.Error().Err(err).Str("module", name).Msg("Module failed to unload")
			if first == nil {
				first = err
			}
		}
	}

	if c.lockFile != "" {
		if err := c.fs.Remove(c.lockFile); err != nil && !os.IsNotExist(err) && first == nil {
			first = errors.Wrapf(err, errors.ErrStateWrite, "cannot remove lock file '%s'", c.lockFile)
		}
		c.logger.Debug().Str("path", c.lockFile).Msg("Instance lock released")
		c.lockFile = ""
	}
	return first
}

// Paths returns the directories modules work in
func (c *Core) Paths() types.Pather {
	return c.paths
}

// Settings returns the application settings
func (c *Core) Settings() *config.Settings {
	return c.settings
}

// Facts collects the current environment facts
func (c *Core) Facts() types.Facts {
	return facts.Collect(c.settings.Facts)
}

// FS returns the filesystem modules should use
func (c *Core) FS() types.FS {
	return c.fs
}

// Acquire claims resource for the requesting module
func (c *Core) Acquire(requester interface{}, resource string) error {
	e, err := c.resolve(requester)
	if err != nil {
		return err
	}
	return c.locks.Acquire(e.name, resource)
}

// Release gives up the requesting module's claim on resource
func (c *Core) Release(requester interface{}, resource string) error {
	e, err := c.resolve(requester)
	if err != nil {
		return err
	}
	return c.locks.Release(e.name, resource)
}

// Owner returns the module owning resource
func (c *Core) Owner(resource string) (string, bool) {
	return c.locks.Owner(resource)
}
