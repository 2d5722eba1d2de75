package core

import (
	"testing"

	"github.com/arthur-debert/carton/pkg/testutil"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/stretchr/testify/require"
)

// fakeModule records every handler call in a shared log
type fakeModule struct {
	name     string
	handlers *types.HandlerTable
	log      *[]string
}

func newFake(name string, log *[]string) *fakeModule {
	return &fakeModule{name: name, handlers: types.NewHandlerTable(), log: log}
}

func (f *fakeModule) Name() string                  { return f.name }
func (f *fakeModule) Handlers() *types.HandlerTable { return f.handlers }

// onHook answers hook with value
func (f *fakeModule) onHook(hook string, value interface{}) *fakeModule {
	f.handlers.Hook(func(args ...interface{}) (interface{}, error) {
		if f.log != nil {
			*f.log = append(*f.log, f.name+":"+hook)
		}
		return value, nil
	}, hook)
	return f
}

// onProc answers proc with value
func (f *fakeModule) onProc(proc string, value interface{}) *fakeModule {
	f.handlers.Proc(func(args ...interface{}) (interface{}, error) {
		if f.log != nil {
			*f.log = append(*f.log, f.name+":"+proc)
		}
		return value, nil
	}, proc)
	return f
}

// otherModule is a second module type for type matching
type otherModule struct {
	fakeModule
}

func newTestCore(t *testing.T) *Core {
	t.Helper()
	env := testutil.NewTestEnvironment(t)

	c, err := New(Options{Paths: env.Paths, Settings: env.Settings, FS: env.FS})
	require.NoError(t, err)
	return c
}
