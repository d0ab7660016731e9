package argot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternValidator(t *testing.T) {
	v := MatchPattern(`^[A-Z][a-z]+$`)
	assert.NoError(t, v.Validate("Actual"))

	err := v.Validate("actual")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `must match the pattern "^[A-Z][a-z]+$"`)
}

func TestListValidator(t *testing.T) {
	v := OneOf("January", "February")

	assert.NoError(t, v.Validate("January"))
	assert.NoError(t, v.Validate("JANUARY"), "case-insensitive by default")

	err := v.Validate("March")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of: January, February")
}

func TestListValidatorCaseSensitive(t *testing.T) {
	v := OneOf("January").CaseSensitive()
	assert.NoError(t, v.Validate("January"))
	assert.Error(t, v.Validate("january"))
}

func TestListValidatorPermitMultiple(t *testing.T) {
	v := OneOf("a", "b", "c").PermitMultiple()
	assert.NoError(t, v.Validate("a,c"))
	assert.NoError(t, v.Validate("b"))

	err := v.Validate("a,x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of: a, b, c")
}

func TestRangeValidator(t *testing.T) {
	v := InRange(1, 5)
	assert.NoError(t, v.Validate("3"))
	assert.NoError(t, v.Validate("1"))
	assert.NoError(t, v.Validate("5"))

	err := v.Validate("6")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 5")

	err = AtLeast(10).Validate("9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 10")

	err = AtMost(10).Validate("11")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 10")
}

// a non-integer value is a conversion failure, not a validation one
func TestRangeValidatorFormatFailure(t *testing.T) {
	err := InRange(1, 5).Validate("many")
	require.Error(t, err)
	assert.IsType(t, conversionFailure{}, err)
	assert.Contains(t, err.Error(), `the value "many" is not a valid integer`)
}
