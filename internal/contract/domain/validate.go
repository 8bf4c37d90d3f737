package domain

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report paths with json names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateTree runs the field rules over a structurally decoded request and
// converts every failure into a path-addressed issue. The whole tree is
// checked in one pass; nothing stops at the first error.
func validateTree(req *DataContractRequest) Issues {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Issues{{Path: "data_contract", Code: CodeParseError, Message: err.Error()}}
	}
	iss := make(Issues, 0, len(verrs))
	for _, fe := range verrs {
		iss = append(iss, Issue{
			Path:    fieldPath(fe.Namespace()),
			Code:    codeForTag(fe.Tag()),
			Message: messageFor(fe),
			Value:   fe.Value(),
		})
	}
	return iss
}

func codeForTag(tag string) string {
	switch tag {
	case "required":
		return CodeRequired
	case "notblank":
		return CodeBlank
	case "oneof":
		return CodeInvalidEnum
	default:
		return CodeInvalid
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "notblank":
		return "value must not be blank"
	case "oneof":
		return fmt.Sprintf("value must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

// fieldPath rewrites a validator namespace such as
// DataContractRequest.data_contract.validations[2].columns[0] into the
// report form data_contract.validations.2.columns.0.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	ns = strings.ReplaceAll(ns, "]", "")
	return ns
}
