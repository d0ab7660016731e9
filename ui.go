package argot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// UI is the thin orchestration layer over one command line: it owns a
// Definition, runs the parser, and on a usage request renders the
// usage summary to the error stream. A ParseError is written and
// propagated to the caller.
type UI struct {
	name    string
	purpose string
	def     *Definition
	parser  *Parser
	errOut  io.Writer
	profile *Profile
}

func NewUI(name, purpose string) *UI {
	return &UI{
		name:    name,
		purpose: purpose,
		def:     NewDefinition(),
		parser:  NewParser(),
		errOut:  os.Stderr,
	}
}

func (u *UI) Definition() *Definition { return u.def }

// Parser exposes the underlying parser, e.g. to register custom type
// conversions.
func (u *UI) Parser() *Parser { return u.parser }

// SetOutput redirects usage and error rendering, default os.Stderr.
func (u *UI) SetOutput(w io.Writer) { u.errOut = w }

// UseProfile overlays raw default values from p, under this UI's name,
// onto arguments not supplied on the command line.
func (u *UI) UseProfile(p *Profile) { u.profile = p }

// Add declares arguments and panics on a declaration error;
// declarations are build-time code, not user input.
func (u *UI) Add(args ...Arg) *UI {
	if err := u.def.Add(args...); err != nil {
		panic("argot: " + err.Error())
	}
	return u
}

// Run parses argv, which includes the program name at argv[0]. On a
// usage request it renders usage and returns ErrShowUsage; on a parse
// failure it writes the message and returns the error.
func (u *UI) Run(argv []string) (*Result, error) {
	tokens := argv
	if len(tokens) > 0 {
		tokens = tokens[1:]
	}
	var defaults map[string]string
	if u.profile != nil {
		defaults = lowerKeys(u.profile.Defaults(u.name))
	}
	res, err := u.parser.ParseWithDefaults(u.def, tokens, defaults)
	if errors.Is(err, ErrShowUsage) {
		fmt.Fprint(u.errOut, usageText(u.name, u.purpose, u.def))
		return nil, err
	}
	if err != nil {
		fmt.Fprintf(u.errOut, "error: %v\n", err)
		return nil, err
	}
	return res, nil
}

func lowerKeys(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
