package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterCustomRules installs the project's custom validation tags on gin's
// binding validator. Call once at startup.
func RegisterCustomRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("hhmm", validHHMM)
}

// validHHMM accepts 24h HH:MM time-of-day strings.
func validHHMM(fl validator.FieldLevel) bool {
	return clockPattern.MatchString(fl.Field().String())
}
