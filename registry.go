package argot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const ( // registry errors
	errNoCommand       = `no command supplied; available commands: %s`
	errUnknownCommand  = `unknown command "%s"; available commands: %s`
	errCommandRedef    = `command "%s" is redefined`
	errNoProvider      = `no builder registered for dependency "%s"`
	errDependencyCycle = `dependency cycle detected at "%s"`
)

// BuilderFunc constructs one named dependency. deps holds the products
// of the builders named in its needs list.
type BuilderFunc func(deps map[string]any) (any, error)

// Handler runs a command against its bound result and the constructed
// dependencies it asked for.
type Handler func(res *Result, deps map[string]any) error

// Command pairs a name with its argument Definition and handler.
// Needs names the dependencies to construct before the handler runs.
type Command struct {
	Name    string
	Purpose string
	Def     *Definition
	Needs   []string
	Run     Handler
}

type provider struct {
	needs []string
	build BuilderFunc
}

// Registry is an explicit registration table mapping command names to
// handlers, with an explicit dependency-construction graph of named
// builder functions. Builders run at most once per Registry, in
// dependency order.
type Registry struct {
	commands  map[string]*Command
	providers map[string]provider
	built     map[string]any
	parser    *Parser
	errOut    io.Writer
	profile   *Profile
}

func NewRegistry() *Registry {
	return &Registry{
		commands:  map[string]*Command{},
		providers: map[string]provider{},
		built:     map[string]any{},
		parser:    NewParser(),
		errOut:    os.Stderr,
	}
}

func (r *Registry) Parser() *Parser { return r.parser }
func (r *Registry) SetOutput(w io.Writer) { r.errOut = w }
func (r *Registry) UseProfile(p *Profile) { r.profile = p }

// Provide registers a named dependency builder and the dependencies it
// needs in turn.
func (r *Registry) Provide(name string, build BuilderFunc, needs ...string) {
	r.providers[strings.ToLower(name)] = provider{needs: needs, build: build}
}

// Register adds a command to the table; command names are
// case-insensitive.
func (r *Registry) Register(cmd *Command) error {
	name := strings.ToLower(cmd.Name)
	if _, ok := r.commands[name]; ok {
		return fmt.Errorf(errCommandRedef, cmd.Name)
	}
	if cmd.Def == nil {
		cmd.Def = NewDefinition()
	}
	r.commands[name] = cmd
	return nil
}

// Dispatch selects the command named by argv[1], parses the remaining
// tokens against its Definition, constructs its dependencies and runs
// the handler. A usage request renders usage and reports success.
func (r *Registry) Dispatch(argv []string) error {
	if len(argv) < 2 {
		return fmt.Errorf(errNoCommand, strings.Join(sortedKeys(r.commands), ", "))
	}
	cmd, ok := r.commands[strings.ToLower(argv[1])]
	if !ok {
		return fmt.Errorf(
			errUnknownCommand, argv[1], strings.Join(sortedKeys(r.commands), ", "),
		)
	}

	var defaults map[string]string
	if r.profile != nil {
		defaults = lowerKeys(r.profile.Defaults(cmd.Name))
	}
	res, err := r.parser.ParseWithDefaults(cmd.Def, argv[2:], defaults)
	if errors.Is(err, ErrShowUsage) {
		fmt.Fprint(r.errOut, usageText(cmd.Name, cmd.Purpose, cmd.Def))
		return nil
	}
	if err != nil {
		fmt.Fprintf(r.errOut, "error: %v\n", err)
		return err
	}

	deps, err := r.resolveAll(cmd.Needs)
	if err != nil {
		return err
	}
	return cmd.Run(res, deps)
}

func (r *Registry) resolveAll(names []string) (map[string]any, error) {
	deps := make(map[string]any, len(names))
	for _, n := range names {
		v, err := r.resolve(strings.ToLower(n), map[string]bool{})
		if err != nil {
			return nil, err
		}
		deps[strings.ToLower(n)] = v
	}
	return deps, nil
}

func (r *Registry) resolve(name string, visiting map[string]bool) (any, error) {
	if v, ok := r.built[name]; ok {
		return v, nil
	}
	if visiting[name] {
		return nil, fmt.Errorf(errDependencyCycle, name)
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf(errNoProvider, name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	deps := make(map[string]any, len(p.needs))
	for _, n := range p.needs {
		v, err := r.resolve(strings.ToLower(n), visiting)
		if err != nil {
			return nil, err
		}
		deps[strings.ToLower(n)] = v
	}
	v, err := p.build(deps)
	if err != nil {
		return nil, err
	}
	r.built[name] = v
	return v, nil
}
