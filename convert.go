package argot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const ( // conversion errors
	errNoConversion   = `no conversion is registered for type "%s"`
	errConvertInt     = `the value "%s" is not a valid integer`
	errConvertFloat   = `the value "%s" is not a valid number`
	errConvertTime    = `the value "%s" is not a recognized date/time`
	errEnumNoMatch    = `the value "%s" does not match a member of %s; valid values are: %s`
	errEnumAmbiguous  = `the value "%s" matches more than one member of %s; valid values are: %s`
	errConvertElement = `element %d of "%s": %w`
)

// Kind enumerates the typed shapes a bound value can take.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindTime
	KindEnum
	KindList
)

// Type is the semantic target type of a value argument. The zero value
// and StringType both mean "leave the raw string alone".
type Type struct {
	Kind    Kind
	Name    string
	Members []string // enum member names, KindEnum only
	Elem    *Type    // element type, KindList only
}

var (
	StringType = Type{Kind: KindString, Name: "string"}
	BoolType   = Type{Kind: KindBool, Name: "bool"}
	IntType    = Type{Kind: KindInt, Name: "int"}
	FloatType  = Type{Kind: KindFloat, Name: "float"}
	TimeType   = Type{Kind: KindTime, Name: "time"}
)

// EnumType declares an enumerated type with the given member names.
func EnumType(name string, members ...string) Type {
	return Type{Kind: KindEnum, Name: name, Members: members}
}

// ListType declares a comma-separated list whose elements convert as
// scalars of elem.
func ListType(elem Type) Type {
	e := elem
	return Type{Kind: KindList, Name: elem.Name + " list", Elem: &e}
}

// Value is the tagged union stored in a Result: exactly one variant is
// populated, matching Kind().
type Value struct {
	kind Kind
	s    string
	b    bool
	i    int64
	f    float64
	t    time.Time
	vs   []Value
}

func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }
func EnumValue(member string) Value { return Value{kind: KindEnum, s: member} }
func ListValue(vs ...Value) Value { return Value{kind: KindList, vs: vs} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) Bool() bool { return v.b }
func (v Value) Int() int64 { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Time() time.Time { return v.t }
func (v Value) List() []Value { return v.vs }

// String returns the raw string for string and enum values and a
// printable form for everything else.
func (v Value) String() string {
	switch v.kind {
	case KindString, KindEnum:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindTime:
		return v.t.Format(time.RFC3339)
	case KindList:
		parts := make([]string, len(v.vs))
		for i, e := range v.vs {
			parts[i] = e.String()
		}
		return strings.Join(parts, ",")
	}
	return ""
}

// truthy is deliberately permissive: anything not matching is false,
// never a format error.
var truthy = regexp.MustCompile(`(?i)^(t(rue)?|y(es)?)$`)

// timeLayouts is tried in order; Go has no locale-driven parse, so the
// accepted formats are fixed.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ConvertFunc converts a raw string for a custom type. bound gives read
// access to values already bound earlier in the same parse, so a
// conversion may depend on sibling arguments.
type ConvertFunc func(raw string, bound *Result) (Value, error)

// Converter turns raw strings into typed Values. The default
// registrations cover string, int, float, bool, date/time, enums and
// lists; Register adds conversions for custom type names.
type Converter struct {
	custom map[string]ConvertFunc
}

func NewConverter() *Converter {
	return &Converter{custom: map[string]ConvertFunc{}}
}

// Register installs fn for the type name. It takes precedence over the
// built-in kind dispatch.
func (c *Converter) Register(typeName string, fn ConvertFunc) {
	c.custom[typeName] = fn
}

func (c *Converter) CanConvert(t Type) bool {
	if _, ok := c.custom[t.Name]; ok {
		return true
	}
	switch t.Kind {
	case KindString, KindBool, KindInt, KindFloat, KindTime, KindEnum:
		return true
	case KindList:
		return t.Elem != nil && c.CanConvert(*t.Elem)
	}
	return false
}

// Convert produces the typed value for raw against t. bound may be nil
// when no sibling values exist yet.
func (c *Converter) Convert(t Type, raw string, bound *Result) (Value, error) {
	if fn, ok := c.custom[t.Name]; ok {
		return fn(raw, bound)
	}
	switch t.Kind {
	case KindString:
		return StringValue(raw), nil
	case KindBool:
		return BoolValue(truthy.MatchString(raw)), nil
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf(errConvertInt, raw)
		}
		return IntValue(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf(errConvertFloat, raw)
		}
		return FloatValue(f), nil
	case KindTime:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return TimeValue(ts), nil
			}
		}
		return Value{}, fmt.Errorf(errConvertTime, raw)
	case KindEnum:
		return convertEnum(t, raw)
	case KindList:
		if t.Elem == nil {
			return Value{}, fmt.Errorf(errNoConversion, t.Name)
		}
		elems := strings.Split(raw, ",")
		vs := make([]Value, 0, len(elems))
		for i, e := range elems {
			v, err := c.Convert(*t.Elem, e, bound)
			if err != nil {
				return Value{}, fmt.Errorf(errConvertElement, i, raw, err)
			}
			vs = append(vs, v)
		}
		return ListValue(vs...), nil
	}
	return Value{}, fmt.Errorf(errNoConversion, t.Name)
}

// convertEnum resolves raw against the member names: first an exact
// case-insensitive match, then a unique case-insensitive suffix match,
// which allows shorthand entry of long constant names.
func convertEnum(t Type, raw string) (Value, error) {
	for _, m := range t.Members {
		if strings.EqualFold(m, raw) {
			return EnumValue(m), nil
		}
	}
	hit, hits := "", 0
	for _, m := range t.Members {
		if strings.HasSuffix(strings.ToLower(m), strings.ToLower(raw)) {
			hit = m
			hits++
		}
	}
	switch hits {
	case 1:
		return EnumValue(hit), nil
	case 0:
		return Value{}, fmt.Errorf(
			errEnumNoMatch, raw, t.Name, strings.Join(t.Members, ", "),
		)
	default:
		return Value{}, fmt.Errorf(
			errEnumAmbiguous, raw, t.Name, strings.Join(t.Members, ", "),
		)
	}
}
