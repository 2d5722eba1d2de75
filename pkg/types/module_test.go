package types_test

import (
	"testing"

	"github.com/arthur-debert/carton/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answer(value interface{}) types.Handler {
	return func(args ...interface{}) (interface{}, error) {
		return value, nil
	}
}

func TestHandlerTable(t *testing.T) {
	table := types.NewHandlerTable().
		Hook(answer("loaded"), "on_load", "enable").
		Proc(answer("got"), "get")

	handler, ok := table.HookFor("load")
	require.True(t, ok, "the on_ prefix is stripped")
	got, err := handler()
	require.NoError(t, err)
	assert.Equal(t, "loaded", got)

	_, ok = table.HookFor("on_load")
	assert.False(t, ok)

	_, ok = table.HookFor("enable")
	assert.True(t, ok, "one handler answers several names")

	_, ok = table.ProcFor("get")
	assert.True(t, ok)
	_, ok = table.HookFor("get")
	assert.False(t, ok, "hooks and procs are separate")

	assert.Equal(t, []string{"enable", "load"}, table.HookNames())
	assert.Equal(t, []string{"get"}, table.ProcNames())
}

func TestHandlerTableNil(t *testing.T) {
	var table *types.HandlerTable

	_, ok := table.HookFor("load")
	assert.False(t, ok)
	_, ok = table.ProcFor("get")
	assert.False(t, ok)
}

func TestHandlerTableInvalidRegistration(t *testing.T) {
	assert.Panics(t, func() { types.NewHandlerTable().Hook(nil, "load") })
	assert.Panics(t, func() { types.NewHandlerTable().Proc(answer(nil)) })
	assert.Panics(t, func() { types.NewHandlerTable().Proc(answer(nil), "on_") })
}

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "load", types.NormalizeHandlerName("on_load"))
	assert.Equal(t, "unload", types.NormalizeHandlerName("unload"))
	assert.Equal(t, "one_two", types.NormalizeHandlerName("on_one_two"))
}
