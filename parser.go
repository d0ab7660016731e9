package argot

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrShowUsage is returned by Parse when the token stream requested
// usage display (--help or /?). Usage display always takes precedence
// over reporting parse errors.
var ErrShowUsage = errors.New("usage requested")

const ( // parse errors
	errValueNotValid = `The value '%s' for argument %s is not valid. %s.`
	errArgConvert    = `argument %s: %v`
	errCannotMix     = `cannot mix arguments from sets %s and %s`
	errMissingOne    = `%d required argument was not supplied`
	errMissingMany   = `%d required arguments were not supplied`
)

type errKind int

const (
	validationFailure errKind = iota
	conversionError
	setConflict
	missingRequired
)

// ParseError is the single fatal failure of a parse: a validation
// failure, a conversion failure, a set conflict or a count of missing
// required arguments. The first failure wins; nothing is accumulated.
type ParseError struct {
	kind errKind
	msg  string
}

func (e *ParseError) Error() string { return e.msg }

func parseErrf(kind errKind, format string, a ...any) *ParseError {
	return &ParseError{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// Result maps argument keys (case-insensitive) to bound values. Keys
// are present only for arguments that were supplied, defaulted, or
// (for flags) encountered.
type Result struct {
	vals map[string]Value
	keys []string
}

func newResult() *Result {
	return &Result{vals: map[string]Value{}}
}

func (r *Result) put(key string, v Value) {
	k := strings.ToLower(key)
	if _, ok := r.vals[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.vals[k] = v
}

func (r *Result) Get(key string) (Value, bool) {
	v, ok := r.vals[strings.ToLower(key)]
	return v, ok
}

func (r *Result) Has(key string) bool {
	_, ok := r.vals[strings.ToLower(key)]
	return ok
}

// Keys returns the bound keys in binding order.
func (r *Result) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r *Result) Len() int { return len(r.vals) }

// optionIntroducer matches tokens that look like the start of another
// option rather than a plain value.
var optionIntroducer = regexp.MustCompile(`^[/-]|^\w\w+:`)

type keywordToken struct {
	name     string
	value    string
	hasValue bool
}

// classified is the output of phase 1: tokens sorted into positional,
// keyword and flag buckets, plus the usage request.
type classified struct {
	positionals []string
	keywords    []keywordToken
	flags       []string
	showUsage   bool
}

// classify walks the raw tokens left to right with one piece of state,
// the pending keyword key introduced by a "-key" token.
func classify(tokens []string) classified {
	var c classified
	pending, havePending := "", false
	bindPending := func() {
		if havePending {
			c.keywords = append(c.keywords, keywordToken{name: pending})
			havePending = false
		}
	}
	for _, tok := range tokens {
		switch {
		case strings.EqualFold(tok, "--help") || tok == "/?":
			c.showUsage = true
			bindPending()
		case havePending:
			if optionIntroducer.MatchString(tok) {
				// The pending key binds to no value and the
				// option-looking token is dropped, not reclassified.
				// This matches the historical grammar; scripts rely
				// on it.
				bindPending()
			} else {
				c.keywords = append(c.keywords, keywordToken{pending, tok, true})
				havePending = false
			}
		case strings.HasPrefix(tok, "--"):
			c.flags = append(c.flags, tok[2:])
		case strings.HasPrefix(tok, "/"):
			c.flags = append(c.flags, tok[1:])
		case strings.Index(tok, ":") >= 2:
			i := strings.Index(tok, ":")
			c.keywords = append(c.keywords, keywordToken{tok[:i], tok[i+1:], true})
		case strings.HasPrefix(tok, "-"):
			pending, havePending = tok[1:], true
		default:
			c.positionals = append(c.positionals, tok)
		}
	}
	bindPending()
	return c
}

// Parser binds classified tokens against a Definition. It holds only
// the converter; every Parse call is a pure function of (Definition,
// tokens) aside from caller-supplied callbacks.
type Parser struct {
	conv *Converter
}

func NewParser() *Parser {
	return &Parser{conv: NewConverter()}
}

// Converter exposes the parser's type converter so callers can
// register conversions for custom type names.
func (p *Parser) Converter() *Converter { return p.conv }

// Parse classifies tokens (the raw command line excluding the program
// name) against def and returns the bound result, ErrShowUsage when
// usage was requested, or the first ParseError.
func (p *Parser) Parse(def *Definition, tokens []string) (*Result, error) {
	return p.parse(def, tokens, nil)
}

// ParseWithDefaults is Parse with an extra layer of raw default values
// (key -> raw string), such as those read from a profile file. They
// take precedence over declared defaults but never over supplied
// tokens, and like declared defaults they bypass validators.
func (p *Parser) ParseWithDefaults(
	def *Definition, tokens []string, defaults map[string]string,
) (*Result, error) {
	return p.parse(def, tokens, defaults)
}

func (p *Parser) parse(
	def *Definition, tokens []string, extraDefaults map[string]string,
) (*Result, error) {
	c := classify(tokens)
	res := newResult()
	activeSet := ""

	checkSet := func(a Arg) *ParseError {
		s := a.SetName()
		if s == "" {
			return nil
		}
		if activeSet == "" {
			activeSet = s
			return nil
		}
		if !strings.EqualFold(activeSet, s) {
			return parseErrf(setConflict, errCannotMix, activeSet, s)
		}
		return nil
	}

	err := p.bind(def, c, res, checkSet)
	if err == nil {
		err = p.applyDefaults(def, c, res, activeSet, extraDefaults)
	}
	if c.showUsage {
		return nil, ErrShowUsage
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// bind is phase 2: flags first, then positionals against declared
// order, then keywords.
func (p *Parser) bind(
	def *Definition, c classified, res *Result, checkSet func(Arg) *ParseError,
) *ParseError {
	for _, name := range c.flags {
		f, ok := lookupAs[*Flag](def, name)
		if !ok {
			if def.KeepUnknownFlags {
				res.put(name, BoolValue(true))
			} else if !c.showUsage {
				def.log().Warn("dropping unrecognized flag", "flag", name)
			}
			continue
		}
		if err := checkSet(f); err != nil {
			return err
		}
		res.put(f.Key(), BoolValue(true))
		if cb := f.callback(); cb != nil {
			cb(f.Key(), "true")
		}
	}

	for i, raw := range c.positionals {
		pa, ok := def.PositionalAt(i)
		if !ok {
			if !c.showUsage {
				def.log().Warn("dropping unrecognized positional value",
					"index", i, "value", raw)
			}
			continue
		}
		if err := checkSet(pa); err != nil {
			return err
		}
		if err := p.bindValue(pa, raw, true, res); err != nil {
			return err
		}
	}

	for _, kt := range c.keywords {
		kw, ok := lookupAs[*Keyword](def, kt.name)
		if !ok {
			if def.KeepUnknownKeywords {
				res.put(kt.name, StringValue(kt.value))
			} else if !c.showUsage {
				def.log().Warn("dropping unrecognized keyword", "keyword", kt.name)
			}
			continue
		}
		if err := checkSet(kw); err != nil {
			return err
		}
		if err := p.bindValue(kw, kt.value, kt.hasValue, res); err != nil {
			return err
		}
	}
	return nil
}

// bindValue validates, converts and stores one value argument.
// Validators run only against explicitly supplied values; a keyword
// bound without a value stores an empty string untouched.
func (p *Parser) bindValue(va ValueArg, raw string, explicit bool, res *Result) *ParseError {
	if !explicit {
		res.put(va.Key(), StringValue(""))
		if cb := va.callback(); cb != nil {
			cb(va.Key(), "")
		}
		return nil
	}
	for _, v := range va.Validators() {
		err := v.Validate(raw)
		if err == nil {
			continue
		}
		var cf conversionFailure
		if errors.As(err, &cf) {
			return parseErrf(conversionError, errArgConvert, va.Key(), cf.msg)
		}
		return parseErrf(
			validationFailure, errValueNotValid,
			displayValue(va, raw), va.Key(), err.Error(),
		)
	}
	v, perr := p.convertValue(va, raw, res)
	if perr != nil {
		return perr
	}
	res.put(va.Key(), v)
	if cb := va.callback(); cb != nil {
		cb(va.Key(), raw)
	}
	return nil
}

func (p *Parser) convertValue(va ValueArg, raw string, bound *Result) (Value, *ParseError) {
	t := va.Type()
	if _, custom := p.conv.custom[t.Name]; !custom && t.Kind == KindString {
		return StringValue(raw), nil
	}
	if !p.conv.CanConvert(t) {
		return Value{}, parseErrf(conversionError, errNoConversion, t.Name)
	}
	v, err := p.conv.Convert(t, raw, bound)
	if err != nil {
		return Value{}, parseErrf(conversionError, errArgConvert, va.Key(), err)
	}
	return v, nil
}

// applyDefaults is phase 3: fill defaults for value arguments not yet
// bound, constrained by the active set, then count unfulfilled
// required arguments. Defaults bypass validators but are converted.
func (p *Parser) applyDefaults(
	def *Definition, c classified, res *Result,
	activeSet string, extraDefaults map[string]string,
) *ParseError {
	missing := 0
	for _, va := range def.ValueArgs() {
		if res.Has(va.Key()) {
			continue
		}
		if s := va.SetName(); s != "" && activeSet != "" && !strings.EqualFold(s, activeSet) {
			continue
		}
		dv, hasDefault := va.Default()
		if extra, ok := extraDefaults[strings.ToLower(va.Key())]; ok {
			dv, hasDefault = extra, true
		}
		if hasDefault {
			v, perr := p.convertValue(va, dv, res)
			if perr != nil {
				return perr
			}
			res.put(va.Key(), v)
			continue
		}
		if va.Required() && !c.showUsage {
			missing++
		}
	}
	if missing > 0 && !c.showUsage {
		if missing == 1 {
			return parseErrf(missingRequired, errMissingOne, missing)
		}
		return parseErrf(missingRequired, errMissingMany, missing)
	}
	return nil
}

// lookupAs resolves a key or alias and requires the declaration to be
// of the classified kind; a flag token naming a keyword argument (or
// vice versa) is unrecognized.
func lookupAs[T Arg](def *Definition, keyOrAlias string) (T, bool) {
	var zero T
	a, ok := def.Lookup(keyOrAlias)
	if !ok {
		return zero, false
	}
	t, ok := a.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// displayValue masks sensitive values in diagnostic output.
func displayValue(va ValueArg, raw string) string {
	if va.Sensitive() {
		return "****"
	}
	return raw
}

func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
