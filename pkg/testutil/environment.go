package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/carton/pkg/config"
	"github.com/arthur-debert/carton/pkg/filesystem"
	"github.com/arthur-debert/carton/pkg/paths"
	"github.com/arthur-debert/carton/pkg/types"
)

// TestEnvironment is an isolated carton root on the real filesystem
type TestEnvironment struct {
	Root     string
	HomeDir  string
	Paths    paths.Paths
	Settings *config.Settings
	FS       types.FS

	t *testing.T
}

// NewTestEnvironment creates the directories of a carton root in a
// temporary directory
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tempDir := t.TempDir()
	env := &TestEnvironment{
		Root:    filepath.Join(tempDir, "carton"),
		HomeDir: filepath.Join(tempDir, "home"),
		FS:      filesystem.NewOS(),
		t:       t,
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(tempDir, "xdg", "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg", "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tempDir, "xdg", "state"))
	t.Setenv(paths.EnvCartonPath, "")
	t.Setenv(config.EnvConfigFile, "")

	p, err := paths.New(env.Root)
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	settings, err := config.Default()
	if err != nil {
		t.Fatalf("Failed to load default settings: %v", err)
	}
	env.Settings = settings

	for _, dir := range []string{env.HomeDir, env.RefsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	if err := p.EnsureDirs(filesystem.NewOS()); err != nil {
		t.Fatalf("Failed to create carton directories: %v", err)
	}

	return env
}

// RefsDir returns the directory link references resolve in
func (e *TestEnvironment) RefsDir() string {
	return e.Paths.RepositoryPath(e.Settings.Links.RefsDir)
}

// DatabasePath returns the configuration database location
func (e *TestEnvironment) DatabasePath() string {
	return e.Paths.RepositoryPath(e.Settings.Database.File)
}

// LinksPath returns the tracked links file location
func (e *TestEnvironment) LinksPath() string {
	return e.Paths.StatePath(e.Settings.Links.File)
}

// Home returns a path inside the fake home directory
func (e *TestEnvironment) Home(parts ...string) string {
	return filepath.Join(append([]string{e.HomeDir}, parts...)...)
}

// WriteRef creates a file in the refs directory and returns its path
func (e *TestEnvironment) WriteRef(reference, content string) string {
	e.t.Helper()
	path := filepath.Join(e.RefsDir(), reference)
	e.WriteFile(path, content)
	return path
}

// WriteDatabase replaces the configuration database content
func (e *TestEnvironment) WriteDatabase(content string) {
	e.t.Helper()
	e.WriteFile(e.DatabasePath(), content)
}

// WriteFile writes content, creating parent directories
func (e *TestEnvironment) WriteFile(path, content string) {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadFile returns a file's content
func (e *TestEnvironment) ReadFile(path string) string {
	e.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		e.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
