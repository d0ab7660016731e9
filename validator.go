package argot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	errMustMatch   = `the value must match the pattern "%s"`
	errMustBeOneOf = `the value must be one of: %s`
	errAtLeast     = `the value must be at least %d`
	errAtMost      = `the value must be at most %d`
	errBetween     = `the value must be between %d and %d`
)

// Validator is a predicate over a single raw string value. A nil return
// means the value passed. Validators never see absent or defaulted
// values, only raw strings explicitly supplied on the command line.
type Validator interface {
	Validate(raw string) error
}

// failedValidation is an ordinary validator rejection; the parser wraps
// it with the offending value and argument key.
type failedValidation struct{ msg string }

func (f failedValidation) Error() string { return f.msg }

// conversionFailure marks errors that must surface as conversion
// errors rather than validation failures, e.g. a range validator fed a
// non-integer.
type conversionFailure struct{ msg string }

func (c conversionFailure) Error() string { return c.msg }

// PatternValidator passes values matching a regular expression.
type PatternValidator struct{ re *regexp.Regexp }

// MatchPattern compiles expr and panics on a malformed expression,
// which is a declaration-time mistake.
func MatchPattern(expr string) PatternValidator {
	return PatternValidator{re: regexp.MustCompile(expr)}
}

func (v PatternValidator) Validate(raw string) error {
	if !v.re.MatchString(raw) {
		return failedValidation{fmt.Sprintf(errMustMatch, v.re.String())}
	}
	return nil
}

// ListValidator passes values found in a fixed permitted set.
// Matching is case-insensitive unless CaseSensitive is chained.
// PermitMultiple comma-splits the value and checks every element.
type ListValidator struct {
	allowed       []string
	caseSensitive bool
	multiple      bool
}

func OneOf(allowed ...string) ListValidator {
	return ListValidator{allowed: allowed}
}

func (v ListValidator) CaseSensitive() ListValidator {
	v.caseSensitive = true
	return v
}

func (v ListValidator) PermitMultiple() ListValidator {
	v.multiple = true
	return v
}

func (v ListValidator) Validate(raw string) error {
	values := []string{raw}
	if v.multiple {
		values = strings.Split(raw, ",")
	}
	for _, val := range values {
		if !v.permitted(val) {
			return failedValidation{
				fmt.Sprintf(errMustBeOneOf, strings.Join(v.allowed, ", ")),
			}
		}
	}
	return nil
}

func (v ListValidator) permitted(val string) bool {
	for _, a := range v.allowed {
		if a == val || (!v.caseSensitive && strings.EqualFold(a, val)) {
			return true
		}
	}
	return false
}

// RangeValidator passes integer values within optional inclusive
// bounds. A value that is not an integer at all is a conversion
// failure, not a validation failure.
type RangeValidator struct{ min, max *int }

func InRange(min, max int) RangeValidator { return RangeValidator{min: &min, max: &max} }
func AtLeast(min int) RangeValidator { return RangeValidator{min: &min} }
func AtMost(max int) RangeValidator { return RangeValidator{max: &max} }

func (v RangeValidator) Validate(raw string) error {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return conversionFailure{fmt.Sprintf(errConvertInt, raw)}
	}
	switch {
	case v.min != nil && v.max != nil:
		if n < *v.min || n > *v.max {
			return failedValidation{fmt.Sprintf(errBetween, *v.min, *v.max)}
		}
	case v.min != nil:
		if n < *v.min {
			return failedValidation{fmt.Sprintf(errAtLeast, *v.min)}
		}
	case v.max != nil:
		if n > *v.max {
			return failedValidation{fmt.Sprintf(errAtMost, *v.max)}
		}
	}
	return nil
}
