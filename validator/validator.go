package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/vortex-fintech/intlphone/geo"
	"github.com/vortex-fintech/intlphone/phonemask"
)

var (
	v *validator.Validate

	dialCodePattern = regexp.MustCompile(`^\+?[0-9]+([ -][0-9]+)*$`)
)

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())
	mustRegister("iso2", func(fl validator.FieldLevel) bool {
		return geo.IsValidISO2(fl.Field().String())
	})
	mustRegister("dialcode", func(fl validator.FieldLevel) bool {
		return dialCodePattern.MatchString(fl.Field().String())
	})
	mustRegister("phonemask", func(fl validator.FieldLevel) bool {
		return phonemask.CountPlaceholders(fl.Field().String()) > 0
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validator: register " + tag + ": " + err.Error())
	}
}

// Struct is the raw validator call, for callers that adapt the error
// themselves (see errors.FromPlayground).
func Struct(i any) error {
	return v.Struct(i)
}
