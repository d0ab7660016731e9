package argot

// ParseCallback is invoked with (key, raw value) after an argument is
// successfully bound.
type ParseCallback func(key, raw string)

// Arg is the common contract of every declaration held by a Definition.
// Declarations are immutable once added; chain setters panic if called
// after Definition.Add.
type Arg interface {
	Key() string
	Alias() string
	Description() string
	SetName() string

	callback() ParseCallback
	seal()
}

// ValueArg is implemented by argument kinds carrying a raw value
// (Positional and Keyword, not Flag).
type ValueArg interface {
	Arg
	Required() bool
	Default() (string, bool)
	Validators() []Validator
	Sensitive() bool
	Type() Type
}

type argMeta struct {
	key    string
	alias  string
	desc   string
	set    string
	cb     ParseCallback
	sealed bool
}

func (m *argMeta) Key() string { return m.key }
func (m *argMeta) Alias() string { return m.alias }
func (m *argMeta) Description() string { return m.desc }
func (m *argMeta) SetName() string { return m.set }
func (m *argMeta) callback() ParseCallback { return m.cb }
func (m *argMeta) seal() { m.sealed = true }

func (m *argMeta) mustMutable() {
	if m.sealed {
		panic("argot: argument " + m.key + " cannot be modified after Add")
	}
}

type valueMeta struct {
	argMeta
	required   bool
	defaultVal *string
	validators []Validator
	sensitive  bool
	typ        Type
}

func (m *valueMeta) Required() bool { return m.required }

func (m *valueMeta) Default() (string, bool) {
	if m.defaultVal == nil {
		return "", false
	}
	return *m.defaultVal, true
}

func (m *valueMeta) Validators() []Validator { return m.validators }
func (m *valueMeta) Sensitive() bool { return m.sensitive }
func (m *valueMeta) Type() Type { return m.typ }

// Positional is a value argument matched by position on the command
// line. Positionals are required unless Optional or WithDefault is set.
type Positional struct{ valueMeta }

func NewPositional(key, desc string) *Positional {
	p := &Positional{}
	p.key, p.desc, p.required, p.typ = key, desc, true, StringType
	return p
}

func (p *Positional) WithAlias(a string) *Positional { p.mustMutable(); p.alias = a; return p }
func (p *Positional) InSet(s string) *Positional { p.mustMutable(); p.set = s; return p }
func (p *Positional) OnParse(cb ParseCallback) *Positional {
	p.mustMutable()
	p.cb = cb
	return p
}
func (p *Positional) Optional() *Positional { p.mustMutable(); p.required = false; return p }
func (p *Positional) WithDefault(raw string) *Positional {
	p.mustMutable()
	p.defaultVal, p.required = &raw, false
	return p
}
func (p *Positional) WithValidators(vs ...Validator) *Positional {
	p.mustMutable()
	p.validators = append(p.validators, vs...)
	return p
}
func (p *Positional) SensitiveValue() *Positional { p.mustMutable(); p.sensitive = true; return p }
func (p *Positional) WithType(t Type) *Positional { p.mustMutable(); p.typ = t; return p }

// Keyword is a value argument matched by name wherever it appears,
// either as "key:value" or as "-key" followed by a value token.
type Keyword struct{ valueMeta }

func NewKeyword(key, desc string) *Keyword {
	k := &Keyword{}
	k.key, k.desc, k.typ = key, desc, StringType
	return k
}

func (k *Keyword) WithAlias(a string) *Keyword { k.mustMutable(); k.alias = a; return k }
func (k *Keyword) InSet(s string) *Keyword { k.mustMutable(); k.set = s; return k }
func (k *Keyword) OnParse(cb ParseCallback) *Keyword {
	k.mustMutable()
	k.cb = cb
	return k
}
func (k *Keyword) Require() *Keyword { k.mustMutable(); k.required = true; return k }
func (k *Keyword) WithDefault(raw string) *Keyword {
	k.mustMutable()
	k.defaultVal = &raw
	return k
}
func (k *Keyword) WithValidators(vs ...Validator) *Keyword {
	k.mustMutable()
	k.validators = append(k.validators, vs...)
	return k
}
func (k *Keyword) SensitiveValue() *Keyword { k.mustMutable(); k.sensitive = true; return k }
func (k *Keyword) WithType(t Type) *Keyword { k.mustMutable(); k.typ = t; return k }

// Flag is a presence-only argument. A supplied flag binds boolean true;
// an absent flag is simply unbound, never false.
type Flag struct{ argMeta }

func NewFlag(key, desc string) *Flag {
	f := &Flag{}
	f.key, f.desc = key, desc
	return f
}

func (f *Flag) WithAlias(a string) *Flag { f.mustMutable(); f.alias = a; return f }
func (f *Flag) InSet(s string) *Flag { f.mustMutable(); f.set = s; return f }
func (f *Flag) OnParse(cb ParseCallback) *Flag { f.mustMutable(); f.cb = cb; return f }
