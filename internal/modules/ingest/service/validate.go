package service

import (
	"fmt"
	"reflect"
	"strings"

	"copytrade/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names, not Go ones
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkRequest maps validator failures onto the 422 detail schema.
func checkRequest(req models.EventRequest, raw []byte) *models.ValidationError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verr := &models.ValidationError{Body: string(raw)}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Detail = append(verr.Detail, models.FieldError{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "invalid_request",
		})
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Detail = append(verr.Detail, models.FieldError{
			Loc:  []string{"body", fe.Field()},
			Msg:  messageFor(fe),
			Type: fe.Tag(),
		})
	}
	return verr
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
