package configdb_test

import (
	"os"
	"testing"

	"github.com/arthur-debert/carton/pkg/core"
	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/modules/configdb"
	"github.com/arthur-debert/carton/pkg/store"
	"github.com/arthur-debert/carton/pkg/testutil"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, env *testutil.TestEnvironment) (*core.Core, *configdb.Module) {
	t.Helper()

	c, err := core.New(core.Options{Paths: env.Paths, Settings: env.Settings})
	require.NoError(t, err)

	m := configdb.New(c, configdb.Options{File: env.Settings.Database.File})
	require.NoError(t, c.Load(m, ""))
	return c, m
}

func TestLoadReadsDatabase(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteDatabase(`{
  "editor": "vim",
  "patch": [
    {"if": "platform == \"plan9\"", "editor": "acme"}
  ]
}`)
	c, m := setup(t, env)

	owner, held := c.Owner("carton.json")
	assert.True(t, held)
	assert.Equal(t, configdb.Name, owner)

	got, err := c.Proc(configdb.ProcGet, types.GetRequest{Path: []string{"editor"}})
	require.NoError(t, err)
	assert.Equal(t, "vim", got)

	raw, err := c.Proc(configdb.ProcGet, types.GetRequest{Raw: true})
	require.NoError(t, err)
	assert.Contains(t, raw, "patch")
	assert.Equal(t, "platform == \"plan9\"", m.Database().Raw()["patch"].([]interface{})[0].(types.Tree)["if"])
}

func TestGetWithPathSegments(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteDatabase(`{"git": {"user": {"name": "Ada"}}}`)
	c, _ := setup(t, env)

	got, err := c.Proc(configdb.ProcGet, "git", "user", "name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)

	got, err = c.Proc(configdb.ProcGet, "git", "missing", "name")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = c.Proc(configdb.ProcGet, 42)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSetGetRoundTrip(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	c, _ := setup(t, env)

	value := types.Tree{"name": "Ada", "aliases": []interface{}{"st", "co"}}
	_, err := c.Proc(configdb.ProcSet, types.SetRequest{Path: []string{"git", "user"}, Value: value})
	require.NoError(t, err)

	got, err := c.Proc(configdb.ProcGet, types.GetRequest{Path: []string{"git", "user"}})
	require.NoError(t, err)
	assert.Equal(t, value, got)

	got.(types.Tree)["name"] = "changed"
	value["name"] = "changed too"

	again, err := c.Proc(configdb.ProcGet, types.GetRequest{Path: []string{"git", "user", "name"}})
	require.NoError(t, err)
	assert.Equal(t, "Ada", again, "stored values are copies")
}

func TestSetWithConditions(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	c, _ := setup(t, env)

	_, err := c.Proc(configdb.ProcSet, &types.SetRequest{Path: []string{"editor"}, Value: "vim"})
	require.NoError(t, err)
	_, err = c.Proc(configdb.ProcSet, &types.SetRequest{
		Path:       []string{"editor"},
		Value:      "acme",
		Conditions: []string{`platform == "plan9"`},
	})
	require.NoError(t, err)
	_, err = c.Proc(configdb.ProcSet, &types.SetRequest{
		Path:       []string{"shell"},
		Value:      "fish",
		Conditions: []string{"True"},
	})
	require.NoError(t, err)

	got, err := c.Proc(configdb.ProcGet, types.GetRequest{})
	require.NoError(t, err)
	assert.Equal(t, types.Tree{"editor": "vim", "shell": "fish"}, got)

	_, err = c.Proc(configdb.ProcSet, types.SetRequest{
		Path:       []string{"broken"},
		Value:      1,
		Conditions: []string{"platform =="},
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))

	raw, err := c.Proc(configdb.ProcGet, types.GetRequest{Raw: true, Path: []string{"patch"}})
	require.NoError(t, err)
	assert.Len(t, raw, 2, "a failed set leaves the database untouched")
}

func TestUnset(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteDatabase(`{"editor": "vim", "shell": "zsh"}`)
	c, _ := setup(t, env)

	removed, err := c.Proc(configdb.ProcUnset, types.UnsetRequest{Path: []string{"editor"}})
	require.NoError(t, err)
	assert.Equal(t, true, removed)

	removed, err = c.Proc(configdb.ProcUnset, types.UnsetRequest{Path: []string{"editor"}})
	require.NoError(t, err)
	assert.Equal(t, false, removed)

	got, err := c.Proc(configdb.ProcGet, types.GetRequest{})
	require.NoError(t, err)
	assert.Equal(t, types.Tree{"shell": "zsh"}, got)
}

func TestUnloadPersists(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	c, _ := setup(t, env)

	_, err := c.Proc(configdb.ProcSet, types.SetRequest{Path: []string{"editor"}, Value: "vim"})
	require.NoError(t, err)
	require.NoError(t, c.Unload(configdb.Name))

	stored, err := store.Read(env.FS, env.DatabasePath())
	require.NoError(t, err)
	assert.Equal(t, types.Tree{"editor": "vim"}, stored)

	_, held := c.Owner("carton.json")
	assert.False(t, held, "the file is released")
}

func TestDisableEnable(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	c, _ := setup(t, env)

	_, err := c.Proc(configdb.ProcSet, types.SetRequest{Path: []string{"editor"}, Value: "vim"})
	require.NoError(t, err)

	require.NoError(t, c.Disable(configdb.Name))
	assert.Contains(t, env.ReadFile(env.DatabasePath()), "vim")
	_, err = c.Proc(configdb.ProcGet, types.GetRequest{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandNotFound))

	require.NoError(t, c.Enable(configdb.Name))
	got, err := c.Proc(configdb.ProcGet, types.GetRequest{Path: []string{"editor"}})
	require.NoError(t, err)
	assert.Equal(t, "vim", got)
}

func TestCorruptDatabase(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteDatabase("{not json")
	c, _ := setup(t, env)

	got, err := c.Proc(configdb.ProcGet, types.GetRequest{})
	require.NoError(t, err)
	assert.Equal(t, types.Tree{}, got, "empty data is used")

	backup := env.DatabasePath() + ".bak"
	assert.Equal(t, "{not json", env.ReadFile(backup))

	owner, held := c.Owner("carton.json.bak")
	assert.True(t, held)
	assert.Equal(t, configdb.Name, owner)

	require.NoError(t, c.Unload(configdb.Name))
	_, held = c.Owner("carton.json.bak")
	assert.False(t, held)

	_, err = os.Stat(env.DatabasePath())
	assert.NoError(t, err, "a fresh database is written")
}

func TestResourceConflict(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	c, err := core.New(core.Options{Paths: env.Paths, Settings: env.Settings})
	require.NoError(t, err)

	require.NoError(t, c.Load(configdb.New(c, configdb.Options{}), ""))
	err = c.Load(configdb.New(c, configdb.Options{}), "other")
	assert.True(t, errors.IsErrorCode(err, errors.ErrResourceLocked))
}

func TestProcsBeforeLoad(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	c, err := core.New(core.Options{Paths: env.Paths, Settings: env.Settings})
	require.NoError(t, err)

	m := configdb.New(c, configdb.Options{})
	handler, ok := m.Handlers().ProcFor(configdb.ProcGet)
	require.True(t, ok)

	_, err = handler(types.GetRequest{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrModuleOffline))
}
