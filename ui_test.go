package argot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildUI() (*UI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	ui := NewUI("consolidate", "Run a consolidation").
		Add(
			NewPositional("scenario", "scenario to consolidate"),
			NewKeyword("count", "repeat count").WithDefault("1").WithType(IntType),
			NewFlag("force", "skip confirmation"),
		)
	ui.SetOutput(out)
	return ui, out
}

func TestUIRun(t *testing.T) {
	ui, out := buildUI()
	res, err := ui.Run([]string{"prog", "Actual", "count:3", "--force"})
	require.NoError(t, err)
	assert.Empty(t, out.String())

	scenario, _ := res.Get("scenario")
	count, _ := res.Get("count")
	assert.Equal(t, "Actual", scenario.String())
	assert.Equal(t, int64(3), count.Int())
	assert.True(t, res.Has("force"))
}

func TestUIRunRendersUsage(t *testing.T) {
	ui, out := buildUI()
	res, err := ui.Run([]string{"prog", "--help"})
	assert.ErrorIs(t, err, ErrShowUsage)
	assert.Nil(t, res)
	assert.Contains(t, out.String(), "Usage: consolidate")
	assert.Contains(t, out.String(), "Run a consolidation")
}

func TestUIRunReportsParseError(t *testing.T) {
	ui, out := buildUI()
	res, err := ui.Run([]string{"prog"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, out.String(), "error: 1 required argument was not supplied")
}

func TestUIRunAddPanicsOnCollision(t *testing.T) {
	ui, _ := buildUI()
	assert.Panics(t, func() { ui.Add(NewFlag("force", "")) })
}

func TestUIProfileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(
		path, []byte(`{"consolidate": {"count": "9"}}`), 0o640,
	))
	prof, err := LoadProfile(path)
	require.NoError(t, err)

	ui, _ := buildUI()
	ui.UseProfile(prof)

	res, err := ui.Run([]string{"prog", "Actual"})
	require.NoError(t, err)
	count, _ := res.Get("count")
	assert.Equal(t, int64(9), count.Int(), "profile value beats the declared default")

	res, err = ui.Run([]string{"prog", "Actual", "count:2"})
	require.NoError(t, err)
	count, _ = res.Get("count")
	assert.Equal(t, int64(2), count.Int(), "supplied tokens beat the profile")
}
