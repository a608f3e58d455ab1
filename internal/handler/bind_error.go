package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
)

// Validation failures must name fields the way submitters spelled them, so
// the binding validator reports JSON tag names instead of Go struct names.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// bindError converts a binding failure into a VALIDATION_ERROR that names the
// first offending field, so callers can correct the payload without guessing.
func bindError(err error) *appErrors.Error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		rule := first.Tag()
		if first.Param() != "" {
			rule += "=" + first.Param()
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest,
			fmt.Sprintf("field %s failed on %s", first.Field(), rule))
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest,
			fmt.Sprintf("field %s must be of type %s", typeErr.Field, typeErr.Type.String()))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
