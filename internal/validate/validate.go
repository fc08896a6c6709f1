// Package validate turns validator.v10 binding failures into the
// field-error list the API reports alongside the generic message.
package validate

import (
    "errors"
    "fmt"

    "github.com/go-playground/validator/v10"
)

type FieldError struct {
    Field   string `json:"field"`
    Message string `json:"message"`
}

// Errors extracts per-field messages from a binding error. Non-validator
// errors (malformed JSON and the like) yield nil.
func Errors(err error) []FieldError {
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return nil
    }
    out := make([]FieldError, 0, len(verrs))
    for _, e := range verrs {
        out = append(out, FieldError{Field: e.Field(), Message: message(e)})
    }
    return out
}

func message(e validator.FieldError) string {
    switch e.Tag() {
    case "required":
        return fmt.Sprintf("%s is required", e.Field())
    case "email":
        return "Please provide a valid email"
    case "min":
        return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
    case "gte":
        return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
    case "oneof":
        return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
    }
    return fmt.Sprintf("%s is invalid", e.Field())
}
