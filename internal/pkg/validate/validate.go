// Package validate wraps a shared go-playground validator for the request
// structs defined in domain.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is initialised once at package load. Custom rule registrations belong
// in an init() before the first call to Struct.
var v = validator.New()

// Struct runs the struct's validate tags and flattens any failures into a
// single message naming each offending field, ready for a 400 body.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s failed the '%s' rule", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
