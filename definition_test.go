package argot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionLookup(t *testing.T) {
	def := mustDef(t,
		NewPositional("scenario", "").WithAlias("scn"),
		NewKeyword("year", ""),
		NewFlag("force", ""),
	)

	a, ok := def.Lookup("SCENARIO")
	require.True(t, ok)
	assert.Equal(t, "scenario", a.Key())

	a, ok = def.Lookup("Scn")
	require.True(t, ok, "aliases resolve case-insensitively")
	assert.Equal(t, "scenario", a.Key())

	_, ok = def.Lookup("period")
	assert.False(t, ok)
}

func TestDefinitionRejectsCollisions(t *testing.T) {
	cases := []struct {
		about  string
		args   []Arg
		expect string
	}{{
		"duplicate key",
		[]Arg{NewKeyword("year", ""), NewKeyword("YEAR", "")},
		`argument "YEAR" is redefined`,
	}, {
		"alias collides with key",
		[]Arg{NewKeyword("year", ""), NewKeyword("period", "").WithAlias("Year")},
		`alias "Year" of argument "period" collides`,
	}, {
		"key collides with alias",
		[]Arg{NewKeyword("year", "").WithAlias("y"), NewKeyword("y", "")},
		`argument "y" is redefined`,
	}, {
		"alias collides with alias",
		[]Arg{
			NewKeyword("year", "").WithAlias("y"),
			NewKeyword("yield", "").WithAlias("Y"),
		},
		`alias "Y" of argument "yield" collides`,
	}}
	for _, c := range cases {
		t.Run(c.about, func(t *testing.T) {
			def := NewDefinition()
			err := def.Add(c.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.expect)
		})
	}
}

func TestDefinitionPositionalOrder(t *testing.T) {
	def := mustDef(t,
		NewKeyword("year", ""),
		NewPositional("first", ""),
		NewFlag("force", ""),
		NewPositional("second", ""),
	)

	p0, ok := def.PositionalAt(0)
	require.True(t, ok)
	assert.Equal(t, "first", p0.Key())
	p1, ok := def.PositionalAt(1)
	require.True(t, ok)
	assert.Equal(t, "second", p1.Key())
	_, ok = def.PositionalAt(2)
	assert.False(t, ok)
	_, ok = def.PositionalAt(-1)
	assert.False(t, ok)
}

// views are derived from the mapping on every call, so they reflect
// later additions
func TestDefinitionViewsAreDerived(t *testing.T) {
	def := mustDef(t, NewKeyword("year", ""))
	assert.Len(t, def.Keywords(), 1)
	assert.Empty(t, def.Flags())

	require.NoError(t, def.Add(NewFlag("force", ""), NewPositional("scenario", "")))
	assert.Len(t, def.Flags(), 1)
	assert.Len(t, def.Positionals(), 1)

	vas := def.ValueArgs()
	require.Len(t, vas, 2)
	assert.Equal(t, "year", vas[0].Key())
	assert.Equal(t, "scenario", vas[1].Key())
}

func TestArgumentsSealedAfterAdd(t *testing.T) {
	kw := NewKeyword("year", "")
	def := mustDef(t, kw)
	_ = def
	assert.Panics(t, func() { kw.WithDefault("2024") })
}

func TestPositionalRequiredByDefault(t *testing.T) {
	assert.True(t, NewPositional("scenario", "").Required())
	assert.False(t, NewPositional("scenario", "").Optional().Required())
	assert.False(t, NewKeyword("year", "").Required())
	assert.True(t, NewKeyword("year", "").Require().Required())
}

func TestWithDefaultClearsRequired(t *testing.T) {
	p := NewPositional("scenario", "").WithDefault("Actual")
	assert.False(t, p.Required())
	dv, ok := p.Default()
	require.True(t, ok)
	assert.Equal(t, "Actual", dv)
}
