package validator_test

import (
	stderrors "errors"
	"testing"

	play "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/intlphone/errors"
	"github.com/vortex-fintech/intlphone/geo"
	"github.com/vortex-fintech/intlphone/validator"
)

// reasons runs Struct and maps each failed field to its reason code.
func reasons(t *testing.T, i any) map[string]string {
	t.Helper()
	err := validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs play.ValidationErrors
	require.True(t, stderrors.As(err, &verrs), "unexpected error %v", err)
	out := map[string]string{}
	for _, v := range errors.ViolationsFromPlayground(verrs, validator.TagMap(), "") {
		out[v.Field] = v.Reason
	}
	return out
}

func validCountry() geo.Country {
	return geo.Country{
		Code:     "US",
		DialCode: "+1",
		Mask:     "(999) 999-9999",
		Names:    map[string]string{"en": "United States"},
	}
}

func TestStruct_ValidCountry(t *testing.T) {
	assert.NoError(t, validator.Struct(validCountry()))
}

func TestStruct_CountryRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *geo.Country)
		field  string
		reason string
	}{
		{name: "lowercase code", mutate: func(c *geo.Country) { c.Code = "us" }, field: "Code", reason: "invalid_country_code"},
		{name: "missing code", mutate: func(c *geo.Country) { c.Code = "" }, field: "Code", reason: "required"},
		{name: "letters in dial code", mutate: func(c *geo.Country) { c.DialCode = "+1a" }, field: "DialCode", reason: "invalid_dial_code"},
		{name: "mask without placeholders", mutate: func(c *geo.Country) { c.Mask = "(___) ___" }, field: "Mask", reason: "invalid_mask"},
		{name: "missing names", mutate: func(c *geo.Country) { c.Names = nil }, field: "Names", reason: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCountry()
			tt.mutate(&c)
			res := reasons(t, c)
			require.NotNil(t, res)
			assert.Equal(t, tt.reason, res[tt.field])
		})
	}
}

func TestStruct_DialCodeShapes(t *testing.T) {
	for _, dc := range []string{"1", "+44", "+1 684", "+44-1481"} {
		c := validCountry()
		c.DialCode = dc
		assert.NoError(t, validator.Struct(c), "dial code %q should be valid", dc)
	}
	for _, dc := range []string{"+", "++1", "+1 ", " 1"} {
		c := validCountry()
		c.DialCode = dc
		assert.Equal(t, "invalid_dial_code", reasons(t, c)["DialCode"], "dial code %q should be invalid", dc)
	}
}

func TestStruct_NonStruct(t *testing.T) {
	var invalid *play.InvalidValidationError
	assert.True(t, stderrors.As(validator.Struct(123), &invalid))
}

func TestTagMap_ReturnsCopy(t *testing.T) {
	m := validator.TagMap()
	m["iso2"] = "mutated"
	assert.Equal(t, "invalid_country_code", validator.TagMap()["iso2"])
}
