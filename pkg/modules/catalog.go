// Package modules holds the catalog of modules a carton instance loads:
// the built-in config and packer modules, followed by extensions that
// register themselves from an init function:
//
//	func init() {
//	    modules.MustRegisterExtension(modules.Extension{
//	        Name:      "brew",
//	        Factories: []types.Factory{NewBrewModule},
//	    })
//	}
//
// Extension modules are loaded with the extension name as parent, so the
// module "bundle" of extension "brew" is known as "brew.bundle".
package modules

import (
	"fmt"

	"github.com/arthur-debert/carton/pkg/config"
	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/modules/configdb"
	"github.com/arthur-debert/carton/pkg/modules/packer"
	"github.com/arthur-debert/carton/pkg/registry"
	"github.com/arthur-debert/carton/pkg/types"
)

// Extension is a named group of module factories
type Extension struct {
	Name      string
	Factories []types.Factory
}

var extensions = registry.New[Extension]()

// RegisterExtension adds an extension to the catalog. Extensions load in
// registration order.
func RegisterExtension(ext Extension) error {
	if len(ext.Factories) == 0 {
		return errors.Newf(errors.ErrInvalidInput, "extension '%s' has no modules", ext.Name).
			WithDetail("extension", ext.Name)
	}
	for _, factory := range ext.Factories {
		if factory == nil {
			return errors.Newf(errors.ErrInvalidInput, "extension '%s' has a nil module factory", ext.Name).
				WithDetail("extension", ext.Name)
		}
	}
	return extensions.Register(ext.Name, ext)
}

// MustRegisterExtension registers an extension and panics on error
func MustRegisterExtension(ext Extension) {
	if err := RegisterExtension(ext); err != nil {
		panic(fmt.Sprintf("failed to register extension %s: %v", ext.Name, err))
	}
}

// Extensions returns the registered extensions in registration order
func Extensions() []Extension {
	return extensions.Items()
}

// UnregisterExtension removes an extension from the catalog
func UnregisterExtension(name string) error {
	return extensions.Remove(name)
}

// Builtins returns the factories of the modules every instance loads,
// configured from settings
func Builtins(settings *config.Settings) []types.Factory {
	return []types.Factory{
		configdb.Factory(configdb.Options{File: settings.Database.File}),
		packer.Factory(packer.Options{
			File:    settings.Links.File,
			RefsDir: settings.Links.RefsDir,
		}),
	}
}
