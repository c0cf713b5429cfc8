package utils

import (
	"errors"
	"reflect"
	"strings"

	"quizpractice/backend/apperrors"

	"github.com/go-playground/validator/v10"
)

var Validator = newValidator()

// newValidator reports fields by their JSON names where they have one.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks val against its validate tags. The first failing field is
// reported as a *apperrors.ValidationError.
func Validate(val interface{}) error {
	err := Validator.Struct(val)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.NewValidationError(fieldPath(fe), describe(fe))
	}
	return apperrors.NewValidationError("", err.Error())
}

// fieldPath drops the top-level struct name from the namespace,
// e.g. "NewAttempt.Items[0].Difficulty" -> "Items[0].Difficulty".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "number":
		return "must be a number"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
