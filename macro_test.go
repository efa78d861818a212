package rsd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRequiresExplicitRegistration(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Lookup("rgb")
	assert.False(t, ok)

	reg.Register(MacroFunc{FuncName: "rgb", Func: func(args map[string]*Value) (*Value, error) {
		return NewInteger(0), nil
	}})

	m, ok := reg.Lookup("rgb")
	require.True(t, ok)
	assert.Equal(t, "rgb", m.Name())
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register(MacroFunc{FuncName: "noop", Func: func(map[string]*Value) (*Value, error) { return nil, nil }})

	reg.Unregister("noop")

	_, ok := reg.Lookup("noop")
	assert.False(t, ok)
}

func TestMacroInvocationStringIsArgSorted(t *testing.T) {
	inv := NewMacroInvocation("rgb", map[string]*Value{
		"b": NewInteger(0),
		"a": NewInteger(1),
	})

	assert.Equal(t, "rgb(a: 1, b: 0)", inv.String())
}

func TestMacroInvocationCloneIsDeep(t *testing.T) {
	inv := NewMacroInvocation("f", map[string]*Value{"x": NewInteger(1)})
	clone := inv.Clone()
	clone.Args["x"].intVal = 2

	assert.Equal(t, int64(1), inv.Args["x"].Int())
	assert.Equal(t, int64(2), clone.Args["x"].Int())
}

func TestMacroFuncErrorPropagates(t *testing.T) {
	boom := errors.New("boom")

	f := MacroFunc{FuncName: "fail", Func: func(map[string]*Value) (*Value, error) {
		return nil, boom
	}}

	_, err := f.Invoke(nil)
	assert.ErrorIs(t, err, boom)
}
