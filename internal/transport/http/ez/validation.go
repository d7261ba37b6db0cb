package ez

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	resp "bookstore-admin/internal/transport/http/response"
)

func init() {
	// 错误里的字段名用 json/form 名，和请求体保持一致
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &AErr{Status: http.StatusBadRequest, Msg: "Invalid request", Err: err}
	}
	fields := make([]resp.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, resp.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return Invalid(fields...)
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return "Please enter a valid email address"
	case "url":
		return name + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "min", "gte":
		if isText {
			return fmt.Sprintf("%s must be at least %s characters long", name, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", name, fe.Param())
	case "max", "lte":
		if isText {
			return fmt.Sprintf("%s must be at most %s characters long", name, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", name, fe.Param())
	}
	return name + " is invalid"
}
