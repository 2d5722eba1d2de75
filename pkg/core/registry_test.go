package core

import (
	"testing"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("broadcasts load to the new module only", func(t *testing.T) {
		c := newTestCore(t)
		var log []string

		require.NoError(t, c.Load(newFake("a", &log).onHook(types.HookLoad, nil), ""))
		require.NoError(t, c.Load(newFake("b", &log).onHook(types.HookLoad, nil), ""))

		assert.Equal(t, []string{"a:load", "b:load"}, log)
		assert.Equal(t, []string{"a", "b"}, c.Loaded())
		assert.Equal(t, []string{"a", "b"}, c.Enabled())
	})

	t.Run("qualifies names with the parent", func(t *testing.T) {
		c := newTestCore(t)

		require.NoError(t, c.Load(newFake("bundle", nil), "brew"))

		assert.Equal(t, []string{"brew.bundle"}, c.Loaded())
		assert.True(t, c.IsLoaded("brew.bundle"))
		assert.False(t, c.IsLoaded("bundle"))
	})

	t.Run("rejects a name already loaded", func(t *testing.T) {
		c := newTestCore(t)
		require.NoError(t, c.Load(newFake("a", nil), ""))

		err := c.Load(newFake("a", nil), "")
		assert.True(t, errors.IsErrorCode(err, errors.ErrModuleAlreadyLoaded))
	})

	t.Run("rejects a name that is loaded but disabled", func(t *testing.T) {
		c := newTestCore(t)
		require.NoError(t, c.Load(newFake("a", nil), ""))
		require.NoError(t, c.Disable("a"))

		err := c.Load(newFake("a", nil), "")
		assert.True(t, errors.IsErrorCode(err, errors.ErrModuleAlreadyLoaded))
	})

	t.Run("rejects invalid modules", func(t *testing.T) {
		c := newTestCore(t)

		assert.True(t, errors.IsErrorCode(c.Load(nil, ""), errors.ErrInvalidInput))
		assert.True(t, errors.IsErrorCode(c.Load(newFake("", nil), ""), errors.ErrInvalidInput))
		assert.True(t, errors.IsErrorCode(c.LoadFactory(nil, ""), errors.ErrInvalidInput))
	})

	t.Run("factories are bound to the core", func(t *testing.T) {
		c := newTestCore(t)
		var host types.Host

		require.NoError(t, c.LoadFactory(func(h types.Host) types.Module {
			host = h
			return newFake("a", nil)
		}, ""))
		assert.Same(t, c, host)
	})
}

func TestUnload(t *testing.T) {
	t.Run("broadcasts unload then removes", func(t *testing.T) {
		c := newTestCore(t)
		var log []string
		require.NoError(t, c.Load(newFake("a", &log).onHook(types.HookUnload, nil), ""))
		require.NoError(t, c.Load(newFake("b", &log).onHook(types.HookUnload, nil), ""))

		require.NoError(t, c.Unload("a"))

		assert.Equal(t, []string{"a:unload"}, log)
		assert.Equal(t, []string{"b"}, c.Loaded())
	})

	t.Run("enables a disabled module first", func(t *testing.T) {
		c := newTestCore(t)
		var log []string
		m := newFake("a", &log).
			onHook(types.HookEnable, nil).
			onHook(types.HookUnload, nil)
		require.NoError(t, c.Load(m, ""))
		require.NoError(t, c.Disable("a"))

		require.NoError(t, c.Unload(m))

		assert.Equal(t, []string{"a:enable", "a:unload"}, log)
		assert.Empty(t, c.Loaded())
	})

	t.Run("unknown module", func(t *testing.T) {
		c := newTestCore(t)

		err := c.Unload("missing")
		assert.True(t, errors.IsErrorCode(err, errors.ErrModuleOffline))
	})
}

func TestEnableDisable(t *testing.T) {
	c := newTestCore(t)
	var log []string
	require.NoError(t, c.Load(newFake("a", &log).
		onHook(types.HookEnable, nil).
		onHook(types.HookDisable, nil), ""))
	require.NoError(t, c.Load(newFake("b", nil), ""))

	require.NoError(t, c.Enable("a"), "enabling an active module is a no-op")
	assert.Empty(t, log)

	require.NoError(t, c.Disable("a"))
	require.NoError(t, c.Disable("a"), "disabling twice is a no-op")
	assert.Equal(t, []string{"a:disable"}, log)

	enabled, err := c.IsEnabled("a")
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.True(t, c.IsLoaded("a"))
	assert.Equal(t, []string{"a", "b"}, c.Loaded())
	assert.Equal(t, []string{"b"}, c.Enabled())

	require.NoError(t, c.Enable("a"))
	assert.Equal(t, []string{"a:disable", "a:enable"}, log)
	assert.Equal(t, []string{"a", "b"}, c.Enabled(), "re-enabling keeps the load position")

	_, err = c.IsEnabled("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrModuleOffline))
}

func TestResolve(t *testing.T) {
	c := newTestCore(t)
	a := newFake("a", nil)
	b := &otherModule{fakeModule: *newFake("b", nil)}
	require.NoError(t, c.Load(a, ""))
	require.NoError(t, c.Load(b, ""))

	t.Run("by name", func(t *testing.T) {
		m, err := c.Module("b")
		require.NoError(t, err)
		assert.Same(t, b, m)
	})

	t.Run("by instance", func(t *testing.T) {
		assert.True(t, c.IsLoaded(a))
		assert.False(t, c.IsLoaded(newFake("a", nil)), "identity, not name")
	})

	t.Run("by type", func(t *testing.T) {
		m, err := c.Module(OfType[*otherModule]())
		require.NoError(t, err)
		assert.Same(t, b, m)

		m, err = c.Module(OfType[*fakeModule]())
		require.NoError(t, err)
		assert.Same(t, a, m, "first match in load order")
	})

	t.Run("by predicate", func(t *testing.T) {
		m, err := c.Module(func(m types.Module) bool { return m.Name() == "b" })
		require.NoError(t, err)
		assert.Same(t, b, m)
	})

	t.Run("unsupported reference", func(t *testing.T) {
		_, err := c.Module(42)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.False(t, c.IsLoaded(42))
	})
}
