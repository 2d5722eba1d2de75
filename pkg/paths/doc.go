// Package paths provides centralized path handling for carton.
//
// carton keeps two trees: the repository, which holds the configuration
// database and the refs directory links point into, and the state
// directory, which holds machine-local data such as the links carton
// created and the instance lock file.
//
// # Resolution
//
// Directories are resolved in this order:
//
//   - an explicit root passed to New: <root>/repository, <root>/state, <root>/config
//   - CARTON_PATH: the same layout below that directory
//   - XDG: $XDG_DATA_HOME/carton/repository, $XDG_DATA_HOME/carton/state and
//     $XDG_CONFIG_HOME/carton, with platform defaults supplied by adrg/xdg
//
// # Usage
//
//	p, err := paths.New("")
//	if err != nil {
//	    return err
//	}
//	if err := p.EnsureDirs(filesystem.NewOS()); err != nil {
//	    return err
//	}
//	db := p.RepositoryPath("carton.json")
package paths
