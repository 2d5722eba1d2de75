// Package packer implements the "packer" module, which links files from
// the repository's refs directory into place.
//
// The "install" key of the configuration database maps target paths to
// references inside the refs directory:
//
//	{
//	  "install": {
//	    "~/.vimrc": "vim/vimrc",
//	    "~/.config/git/config": "git/config"
//	  }
//	}
//
// "unpack" validates every entry, links them, and removes links created by
// an earlier unpack that are no longer configured. Created links are kept
// in the state directory.
package packer

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/logging"
	"github.com/arthur-debert/carton/pkg/paths"
	"github.com/arthur-debert/carton/pkg/store"
	"github.com/arthur-debert/carton/pkg/tree"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/rs/zerolog"
)

// Name is the registry name of the module
const Name = "packer"

// Proc names
const (
	ProcUnpack  = "unpack"
	ProcCanLink = "can_link"
	ProcLink    = "link"
	ProcUnlink  = "unlink"
)

// InstallKey is the configuration key listing the links to create
const InstallKey = "install"

// Defaults used when Options fields are empty
const (
	DefaultFile    = "links.json"
	DefaultRefsDir = "refs"
)

// Options configures the module
type Options struct {
	// File tracks created links inside the state directory
	File string
	// RefsDir is the directory inside the repository references resolve in
	RefsDir string
}

// Report describes what an unpack changed
type Report struct {
	Linked  []string
	Removed []string
}

// Module is the packer module
type Module struct {
	host     types.Host
	opts     Options
	handlers *types.HandlerTable
	logger   zerolog.Logger

	file  *store.File
	links map[string]string
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
	if opts.RefsDir == "" {
		opts.RefsDir = DefaultRefsDir
	}

	m := &Module{
		host:   host,
		opts:   opts,
		logger: logging.GetLogger("packer"),
		links:  make(map[string]string),
	}
	m.handlers = types.NewHandlerTable().
		Hook(m.onLoad, types.HookLoad, types.HookEnable).
		Hook(m.onUnload, types.HookUnload, types.HookDisable).
		Proc(m.unpack, ProcUnpack).
		Proc(m.canLink, ProcCanLink).
		Proc(m.link, ProcLink).
		Proc(m.unlink, ProcUnlink)
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

// RefsDir returns the directory references resolve in
func (m *Module) RefsDir() string {
	return filepath.Join(m.host.Paths().RepositoryDir(), m.opts.RefsDir)
}

// Links returns a copy of the tracked links, target to reference
func (m *Module) Links() map[string]string {
	out := make(map[string]string, len(m.links))
	for file, reference := range m.links {
		out[file] = reference
	}
	return out
}

func (m *Module) onLoad(args ...interface{}) (interface{}, error) {
	m.file = store.NewFile(m.host, m, filepath.Join(m.host.Paths().StateDir(), m.opts.File))
	stored, err := m.file.Open()
	if err != nil {
		return nil, err
	}

	m.links = make(map[string]string, len(stored))
	for file, value := range stored {
		reference, ok := value.(string)
		if !ok {
			m.logger.Warn().Str("file", file).Msg("Ignoring malformed link record")
			continue
		}
		m.links[file] = reference
	}

	m.logger.Debug().Int("links", len(m.links)).Msg("Tracked links loaded")
	return nil, nil
}

func (m *Module) onUnload(args ...interface{}) (interface{}, error) {
	if m.file == nil || !m.file.IsOpen() {
		return nil, nil
	}

	stored := make(types.Tree, len(m.links))
	for file, reference := range m.links {
		stored[file] = reference
	}
	return nil, m.file.Close(stored)
}

func (m *Module) unpack(args ...interface{}) (interface{}, error) {
	done := logging.LogOperationStart(m.logger, "unpack")
	defer done()

	value, err := m.host.Proc("get", types.GetRequest{Path: []string{InstallKey}})
	if err != nil {
		return nil, err
	}
	files, err := installEntries(value)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(files))
	for file := range files {
		targets = append(targets, file)
	}
	sort.Strings(targets)

	for _, file := range targets {
		if _, err := m.host.Proc(ProcCanLink, files[file], file); err != nil {
			return nil, err
		}
	}

	report := &Report{}
	for _, file := range targets {
		if _, err := m.host.Proc(ProcLink, files[file], file); err != nil {
			return report, err
		}
		m.links[file] = files[file]
		report.Linked = append(report.Linked, file)
	}

	stale := make([]string, 0)
	for file := range m.links {
		if _, ok := files[file]; !ok {
			stale = append(stale, file)
		}
	}
	sort.Strings(stale)

	for _, file := range stale {
		_, err := m.host.Proc(ProcUnlink, file)
		switch {
		case err == nil:
			report.Removed = append(report.Removed, file)
		case errors.IsErrorCode(err, errors.ErrFileNotFound), errors.IsErrorCode(err, errors.ErrFileNotTracked):
			m.logger.Warn().Err(err).Str("file", file).Msg("Forgetting link carton no longer manages")
		default:
			return report, err
		}
		delete(m.links, file)
	}

	m.logger.Info().Int("linked", len(report.Linked)).Int("removed", len(report.Removed)).Msg("Unpacked")
	return report, nil
}

func (m *Module) canLink(args ...interface{}) (interface{}, error) {
	reference, file, err := linkArgs(ProcCanLink, args)
	if err != nil {
		return nil, err
	}

	target, err := m.target(file)
	if err != nil {
		return nil, err
	}
	origin := filepath.Join(m.RefsDir(), reference)
	fs := m.host.FS()

	if _, err := fs.Stat(origin); err != nil {
		return nil, errors.Newf(errors.ErrFileNotFound, "no such file or directory: '%s'", origin).
			WithDetail("path", origin)
	}
	if _, err := fs.Lstat(target); err == nil && !m.tracked(target) {
		return nil, errors.Newf(errors.ErrSymlinkExists, "file exists: '%s'", target).
			WithDetail("path", target)
	}

	parent := filepath.Dir(target)
	if info, err := fs.Stat(parent); err == nil {
		if !info.IsDir() {
			return nil, errors.Newf(errors.ErrNotDirectory, "not a directory: '%s'", parent).
				WithDetail("path", parent)
		}
		if !fs.Writable(parent) {
			return nil, permissionError(parent)
		}
	}
	return nil, nil
}

func (m *Module) link(args ...interface{}) (interface{}, error) {
	reference, file, err := linkArgs(ProcLink, args)
	if err != nil {
		return nil, err
	}

	target, err := m.target(file)
	if err != nil {
		return nil, err
	}
	origin := filepath.Join(m.RefsDir(), reference)
	fs := m.host.FS()

	if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create '%s'", filepath.Dir(target))
	}
	if _, err := fs.Lstat(target); err == nil {
		if err := fs.Remove(target); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot replace '%s'", target)
		}
	}
	if err := fs.Symlink(origin, target); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link '%s' to '%s'", target, origin)
	}

	m.logger.Debug().Str("target", target).Str("origin", origin).Msg("Linked")
	return nil, nil
}

func (m *Module) unlink(args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, argumentError(ProcUnlink, args)
	}
	file, ok := args[0].(string)
	if !ok {
		return nil, argumentError(ProcUnlink, args)
	}

	target, err := m.target(file)
	if err != nil {
		return nil, err
	}
	fs := m.host.FS()

	if _, err := fs.Lstat(target); err != nil {
		return nil, errors.Newf(errors.ErrFileNotFound, "no such file or directory: '%s'", target).
			WithDetail("path", target)
	}
	if parent := filepath.Dir(target); !fs.Writable(parent) {
		return nil, permissionError(parent)
	}
	if !m.tracked(target) {
		return nil, errors.Newf(errors.ErrFileNotTracked, "file not tracked by carton: '%s'", target).
			WithDetail("path", target)
	}

	if err := fs.Remove(target); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove '%s'", target)
	}
	m.logger.Debug().Str("target", target).Msg("Unlinked")
	return nil, nil
}

// tracked reports whether target is a link into the refs directory
func (m *Module) tracked(target string) bool {
	dest, err := m.host.FS().Readlink(target)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(target), dest)
	}

	rel, err := filepath.Rel(m.RefsDir(), filepath.Clean(dest))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (m *Module) target(file string) (string, error) {
	if file == "" {
		return "", errors.New(errors.ErrInvalidInput, "link target cannot be empty")
	}
	return paths.Clean(file)
}

func installEntries(value interface{}) (map[string]string, error) {
	if value == nil {
		return map[string]string{}, nil
	}

	node, ok := tree.AsMapping(value)
	if !ok {
		return nil, invalidInstall()
	}

	files := make(map[string]string, len(node))
	for file, ref := range node {
		reference, ok := ref.(string)
		if !ok || reference == "" {
			return nil, invalidInstall()
		}
		files[file] = reference
	}
	return files, nil
}

func linkArgs(proc string, args []interface{}) (string, string, error) {
	if len(args) != 2 {
		return "", "", argumentError(proc, args)
	}
	reference, ok1 := args[0].(string)
	file, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return "", "", argumentError(proc, args)
	}
	return reference, file, nil
}

func invalidInstall() error {
	return errors.Newf(errors.ErrConfigValid, "configuration element '%s' has an unexpected format", InstallKey).
		WithDetail("element", InstallKey)
}

func permissionError(path string) error {
	return errors.Newf(errors.ErrPermission, "invalid permissions on '%s'", path).
		WithDetail("path", path)
}

func argumentError(proc string, args []interface{}) error {
	return errors.Newf(errors.ErrInvalidInput, "proc '%s' got unexpected arguments %v", proc, args).
		WithDetail("proc", proc)
}
