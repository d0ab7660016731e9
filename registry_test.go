package argot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRegistry(t *testing.T) (*Registry, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	reg := NewRegistry()
	reg.SetOutput(out)

	def := NewDefinition()
	require.NoError(t, def.Add(
		NewPositional("scenario", "scenario to consolidate"),
		NewFlag("force", "skip confirmation"),
	))
	require.NoError(t, reg.Register(&Command{
		Name:    "consolidate",
		Purpose: "Run a consolidation",
		Def:     def,
		Run: func(*Result, map[string]any) error {
			return nil
		},
	}))
	return reg, out
}

func TestDispatchRunsHandler(t *testing.T) {
	reg, _ := buildRegistry(t)

	var got *Result
	def := NewDefinition()
	require.NoError(t, def.Add(NewKeyword("file", "").Require()))
	require.NoError(t, reg.Register(&Command{
		Name: "loaddata",
		Def:  def,
		Run: func(res *Result, _ map[string]any) error {
			got = res
			return nil
		},
	}))

	require.NoError(t, reg.Dispatch([]string{"prog", "LoadData", "file:data.dat"}))
	require.NotNil(t, got, "command names match case-insensitively")
	v, _ := got.Get("file")
	assert.Equal(t, "data.dat", v.String())
}

func TestDispatchUnknownCommand(t *testing.T) {
	reg, _ := buildRegistry(t)
	err := reg.Dispatch([]string{"prog", "calculate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "calculate"`)
	assert.Contains(t, err.Error(), "consolidate")
}

func TestDispatchNoCommand(t *testing.T) {
	reg, _ := buildRegistry(t)
	err := reg.Dispatch([]string{"prog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command supplied")
}

func TestDispatchRendersUsage(t *testing.T) {
	reg, out := buildRegistry(t)
	require.NoError(t, reg.Dispatch([]string{"prog", "consolidate", "--help"}))
	assert.Contains(t, out.String(), "Usage: consolidate")
	assert.Contains(t, out.String(), "Run a consolidation")
}

func TestDispatchReportsParseError(t *testing.T) {
	reg, out := buildRegistry(t)
	err := reg.Dispatch([]string{"prog", "consolidate"})
	require.Error(t, err)
	assert.Contains(t, out.String(), "error: 1 required argument was not supplied")
}

func TestRegisterDuplicate(t *testing.T) {
	reg, _ := buildRegistry(t)
	err := reg.Register(&Command{Name: "Consolidate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `command "Consolidate" is redefined`)
}

func TestDependencyGraph(t *testing.T) {
	reg := NewRegistry()
	reg.SetOutput(&bytes.Buffer{})

	builds := map[string]int{}
	reg.Provide("config", func(map[string]any) (any, error) {
		builds["config"]++
		return "cfg", nil
	})
	reg.Provide("session", func(deps map[string]any) (any, error) {
		builds["session"]++
		require.Equal(t, "cfg", deps["config"], "needs are built first")
		return "sess", nil
	}, "config")

	var seen map[string]any
	require.NoError(t, reg.Register(&Command{
		Name:  "run",
		Needs: []string{"session"},
		Run: func(_ *Result, deps map[string]any) error {
			seen = deps
			return nil
		},
	}))

	require.NoError(t, reg.Dispatch([]string{"prog", "run"}))
	assert.Equal(t, "sess", seen["session"])
	assert.Equal(t, 1, builds["config"])
	assert.Equal(t, 1, builds["session"])

	// builders run at most once per registry
	require.NoError(t, reg.Dispatch([]string{"prog", "run"}))
	assert.Equal(t, 1, builds["config"])
	assert.Equal(t, 1, builds["session"])
}

func TestDependencyCycle(t *testing.T) {
	reg := NewRegistry()
	reg.Provide("a", func(map[string]any) (any, error) { return nil, nil }, "b")
	reg.Provide("b", func(map[string]any) (any, error) { return nil, nil }, "a")
	require.NoError(t, reg.Register(&Command{
		Name:  "run",
		Needs: []string{"a"},
		Run:   func(*Result, map[string]any) error { return nil },
	}))

	err := reg.Dispatch([]string{"prog", "run"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency cycle")
}

func TestDependencyMissingProvider(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Command{
		Name:  "run",
		Needs: []string{"ghost"},
		Run:   func(*Result, map[string]any) error { return nil },
	}))
	err := reg.Dispatch([]string{"prog", "run"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no builder registered for dependency "ghost"`)
}
