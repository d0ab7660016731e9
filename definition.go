// Package argot is a declarative command line argument definition and
// parsing engine. A caller declares positional, keyword and flag
// arguments on a Definition, then hands raw tokens to a Parser, which
// classifies them, binds values, runs validators and type conversion,
// and returns a bound Result or a single ParseError.
package argot

import (
	"fmt"
	"log/slog"
	"strings"
)

const ( // declaration errors
	errArgRedefined  = `argument "%s" is redefined`
	errAliasConflict = `alias "%s" of argument "%s" collides with an existing key`
)

// Definition is the declarative schema for one command line: an
// ordered, case-insensitively keyed collection of argument
// declarations. Build it once; it is read-only during parsing.
type Definition struct {
	args     map[string]Arg    // lower-cased key -> declaration
	aliases  map[string]string // lower-cased alias -> lower-cased key
	order    []string          // keys in insertion order
	posOrder []string          // positional keys in insertion order

	// KeepUnknownKeywords and KeepUnknownFlags retain unrecognized
	// tokens verbatim in the Result instead of dropping them with a
	// warning.
	KeepUnknownKeywords bool
	KeepUnknownFlags    bool

	logger *slog.Logger
}

func NewDefinition() *Definition {
	return &Definition{
		args:    map[string]Arg{},
		aliases: map[string]string{},
	}
}

// SetLogger directs warning-level side notes (dropped unknown
// arguments) to l instead of the default slog logger.
func (d *Definition) SetLogger(l *slog.Logger) { d.logger = l }

func (d *Definition) log() *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return slog.Default()
}

// Add inserts declarations by key, recording positional order for
// Positional arguments. Keys and aliases are case-insensitive; a
// duplicate key or a colliding alias is an error. Added arguments are
// sealed against further modification.
func (d *Definition) Add(args ...Arg) error {
	for _, a := range args {
		key := strings.ToLower(a.Key())
		if _, ok := d.args[key]; ok {
			return fmt.Errorf(errArgRedefined, a.Key())
		}
		if _, ok := d.aliases[key]; ok {
			return fmt.Errorf(errArgRedefined, a.Key())
		}
		if alias := strings.ToLower(a.Alias()); alias != "" {
			if _, ok := d.args[alias]; ok {
				return fmt.Errorf(errAliasConflict, a.Alias(), a.Key())
			}
			if _, ok := d.aliases[alias]; ok {
				return fmt.Errorf(errAliasConflict, a.Alias(), a.Key())
			}
			d.aliases[alias] = key
		}
		d.args[key] = a
		d.order = append(d.order, key)
		if _, ok := a.(*Positional); ok {
			d.posOrder = append(d.posOrder, key)
		}
		a.seal()
	}
	return nil
}

// Lookup resolves a key or alias, case-insensitively.
func (d *Definition) Lookup(keyOrAlias string) (Arg, bool) {
	k := strings.ToLower(keyOrAlias)
	if a, ok := d.args[k]; ok {
		return a, true
	}
	if key, ok := d.aliases[k]; ok {
		return d.args[key], true
	}
	return nil, false
}

// PositionalAt returns the Nth positional declaration.
func (d *Definition) PositionalAt(i int) (*Positional, bool) {
	if i < 0 || i >= len(d.posOrder) {
		return nil, false
	}
	return d.args[d.posOrder[i]].(*Positional), true
}

// The view methods below are derived from the underlying mapping on
// every call, so they always reflect the current declaration set.

func (d *Definition) Positionals() []*Positional {
	out := make([]*Positional, 0, len(d.posOrder))
	for _, k := range d.posOrder {
		out = append(out, d.args[k].(*Positional))
	}
	return out
}

func (d *Definition) Keywords() []*Keyword {
	var out []*Keyword
	for _, k := range d.order {
		if kw, ok := d.args[k].(*Keyword); ok {
			out = append(out, kw)
		}
	}
	return out
}

func (d *Definition) Flags() []*Flag {
	var out []*Flag
	for _, k := range d.order {
		if f, ok := d.args[k].(*Flag); ok {
			out = append(out, f)
		}
	}
	return out
}

// ValueArgs returns every positional and keyword declaration in
// insertion order.
func (d *Definition) ValueArgs() []ValueArg {
	var out []ValueArg
	for _, k := range d.order {
		if va, ok := d.args[k].(ValueArg); ok {
			out = append(out, va)
		}
	}
	return out
}
