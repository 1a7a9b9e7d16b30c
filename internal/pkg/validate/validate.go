package validate

import (
	"fmt"
	"strings"

	"github.com/email-access-policy/internal/pkg/emailcheck"
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time; custom tags are registered in init() before the first call to Struct.
var v = validator.New()

func init() {
	// policy_email applies the same syntax rule the policy engine uses, so a
	// request can never pass validation and then fail classification.
	_ = v.RegisterValidation("policy_email", func(fl validator.FieldLevel) bool {
		return emailcheck.IsValidSyntax(fl.Field().String())
	})
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
