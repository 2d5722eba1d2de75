// Package configdb implements the "config" module: the layered
// configuration database other modules read through the "get" proc.
//
// The raw tree is stored in the repository directory. A reduced view,
// with conditional patches applied against the current facts, answers
// reads unless the raw tree is asked for.
package configdb

import (
	"path/filepath"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/logging"
	"github.com/arthur-debert/carton/pkg/store"
	"github.com/arthur-debert/carton/pkg/tree"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/rs/zerolog"
)

// Name is the registry name of the module
const Name = "config"

// Proc names
const (
	ProcGet   = "get"
	ProcSet   = "set"
	ProcUnset = "unset"
)

// DefaultFile is used when Options.File is empty
const DefaultFile = "carton.json"

// Options configures the module
type Options struct {
	// File is the database file name inside the repository directory
	File string
}

// Module is the configuration database module
type Module struct {
	host     types.Host
	opts     Options
	handlers *types.HandlerTable
	logger   zerolog.Logger

	file *store.File
	db   *tree.Database
}

// Factory returns a factory building the module with opts
func Factory(opts Options) types.Factory {
	return func(host types.Host) types.Module {
		return New(host, opts)
	}
}

// New creates the module bound to host
func New(host types.Host, opts Options) *Module {
	if opts.File == "" {
		opts.File = DefaultFile
	}

	m := &Module{
		host:   host,
		opts:   opts,
		logger: logging.GetLogger("configdb"),
	}
	m.handlers = types.NewHandlerTable().
		Hook(m.onLoad, types.HookLoad, types.HookEnable).
		Hook(m.onUnload, types.HookUnload, types.HookDisable).
		Proc(m.get, ProcGet).
		Proc(m.set, ProcSet).
		Proc(m.unset, ProcUnset)
	return m
}

// Name implements types.Module
func (m *Module) Name() string {
	return Name
}

// Handlers implements types.Module
func (m *Module) Handlers() *types.HandlerTable {
	return m.handlers
}

// Path returns the database file location
func (m *Module) Path() string {
	return filepath.Join(m.host.Paths().RepositoryDir(), m.opts.File)
}

// Database returns the loaded database, nil while the module is not loaded
func (m *Module) Database() *tree.Database {
	return m.db
}

func (m *Module) onLoad(args ...interface{}) (interface{}, error) {
	m.file = store.NewFile(m.host, m, m.Path())
	raw, err := m.file.Open()
	if err != nil {
		return nil, err
	}

	db, err := tree.NewDatabase(raw, m.host.Facts(), nil)
	if err != nil {
		return nil, err
	}
	m.db = db

	m.logger.Debug().Str("path", m.file.Path()).Msg("Configuration database loaded")
	return nil, nil
}

func (m *Module) onUnload(args ...interface{}) (interface{}, error) {
	if m.file == nil || !m.file.IsOpen() {
		return nil, nil
	}

	var raw types.Tree
	if m.db != nil {
		raw = m.db.Raw()
	}
	m.db = nil

	if err := m.file.Close(raw); err != nil {
		return nil, err
	}
	m.logger.Debug().Str("path", m.file.Path()).Msg("Configuration database saved")
	return nil, nil
}

// get answers types.GetRequest, or a plain list of path segments
func (m *Module) get(args ...interface{}) (interface{}, error) {
	if err := m.ready(); err != nil {
		return nil, err
	}

	req, err := getRequest(args)
	if err != nil {
		return nil, err
	}

	value, _ := m.db.Get(req.Raw, req.Path...)
	return value, nil
}

func (m *Module) set(args ...interface{}) (interface{}, error) {
	if err := m.ready(); err != nil {
		return nil, err
	}

	var req types.SetRequest
	switch r := single(args).(type) {
	case types.SetRequest:
		req = r
	case *types.SetRequest:
		req = *r
	default:
		return nil, argumentError(ProcSet, "types.SetRequest", args)
	}

	if err := m.db.Set(req.Path, req.Value, req.Conditions...); err != nil {
		return nil, err
	}
	m.logger.Info().Strs("path", req.Path).Strs("conditions", req.Conditions).Msg("Configuration value set")
	return nil, nil
}

func (m *Module) unset(args ...interface{}) (interface{}, error) {
	if err := m.ready(); err != nil {
		return nil, err
	}

	var req types.UnsetRequest
	switch r := single(args).(type) {
	case types.UnsetRequest:
		req = r
	case *types.UnsetRequest:
		req = *r
	default:
		return nil, argumentError(ProcUnset, "types.UnsetRequest", args)
	}

	removed, err := m.db.Unset(req.Path, req.Conditions...)
	if err != nil {
		return nil, err
	}
	m.logger.Info().Strs("path", req.Path).Bool("removed", removed).Msg("Configuration value unset")
	return removed, nil
}

func (m *Module) ready() error {
	if m.db == nil {
		return errors.Newf(errors.ErrModuleOffline, "module '%s' is not loaded", Name).
			WithDetail("module", Name)
	}
	return nil
}

func getRequest(args []interface{}) (types.GetRequest, error) {
	switch r := single(args).(type) {
	case types.GetRequest:
		return r, nil
	case *types.GetRequest:
		return *r, nil
	}

	path := make([]string, 0, len(args))
	for _, arg := range args {
		segment, ok := arg.(string)
		if !ok {
			return types.GetRequest{}, argumentError(ProcGet, "types.GetRequest or path segments", args)
		}
		path = append(path, segment)
	}
	return types.GetRequest{Path: path}, nil
}

func single(args []interface{}) interface{} {
	if len(args) != 1 {
		return nil
	}
	return args[0]
}

func argumentError(proc, expected string, args []interface{}) error {
	return errors.Newf(errors.ErrInvalidInput, "proc '%s' expects %s, got %v", proc, expected, args).
		WithDetail("proc", proc)
}
