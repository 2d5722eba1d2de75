package carton

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against the test environment's root
func run(t *testing.T, env *testutil.TestEnvironment, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--root", env.Root}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestSetAndGet(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := run(t, env, "set", "git", "user", "name", "Ada")
	require.NoError(t, err)
	_, err = run(t, env, "set", "history", "10000")
	require.NoError(t, err)

	out, err := run(t, env, "get", "git", "user", "name")
	require.NoError(t, err)
	assert.Equal(t, "Ada\n", out)

	out, err = run(t, env, "get", "history")
	require.NoError(t, err)
	assert.Equal(t, "10000\n", out, "values are parsed as YAML")

	out, err = run(t, env, "get")
	require.NoError(t, err)
	assert.Contains(t, out, "git:\n  user:\n    name: Ada\n")

	testutil.AssertNotExists(t, env.Paths.LockFile())
}

func TestSetWithCondition(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := run(t, env, "set", "editor", "vim")
	require.NoError(t, err)
	_, err = run(t, env, "set", "--if", `platform == "plan9"`, "editor", "acme")
	require.NoError(t, err)

	out, err := run(t, env, "get", "editor")
	require.NoError(t, err)
	assert.Equal(t, "vim\n", out)

	out, err = run(t, env, "get", "--raw", "patch")
	require.NoError(t, err)
	assert.Contains(t, out, "acme")
}

func TestGetMissingKey(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := run(t, env, "get", "missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestUnset(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := run(t, env, "set", "editor", "vim")
	require.NoError(t, err)
	_, err = run(t, env, "unset", "editor")
	require.NoError(t, err)

	_, err = run(t, env, "get", "editor")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestUnpack(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	origin := env.WriteRef("vim/vimrc", "set nocompatible")

	_, err := run(t, env, "set", "install", "~/.vimrc", "vim/vimrc")
	require.NoError(t, err)

	out, err := run(t, env, "unpack")
	require.NoError(t, err)
	assert.Contains(t, out, "Linked ~/.vimrc")
	testutil.AssertSymlink(t, env.Home(".vimrc"), origin)

	_, err = run(t, env, "unset", "install", "~/.vimrc")
	require.NoError(t, err)

	out, err = run(t, env, "unpack")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed ~/.vimrc")
	testutil.AssertNotExists(t, env.Home(".vimrc"))

	out, err = run(t, env, "unpack")
	require.NoError(t, err)
	assert.Contains(t, out, MsgNothingToDo)
}

func TestModules(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	out, err := run(t, env, "--disable", "packer", "modules")
	require.NoError(t, err)

	assert.Contains(t, out, "config")
	assert.Contains(t, out, "packer")
	assert.Contains(t, out, MsgStateDisabled)
	assert.Contains(t, out, "can_link")
}

func TestDisabledModuleProcs(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := run(t, env, "--disable", "packer", "unpack")
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandNotFound))
}

func TestDatabaseFormat(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := run(t, env, "--database", "carton.yaml", "set", "editor", "vim")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(env.Paths.RepositoryDir(), "carton.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "editor: vim\n", string(data))
}

func TestVersion(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	out, err := run(t, env, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "carton version dev")
}

func TestSetNeedsKeyAndValue(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := run(t, env, "set", "editor")
	assert.Error(t, err)
}

func TestRenderError(t *testing.T) {
	assert.Contains(t, RenderError(errors.New(errors.ErrNotFound, "missing")), "Error: [NOT_FOUND] missing")
}
