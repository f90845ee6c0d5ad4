package errs

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FromValidator 把 validator 的校验错误转为带字段明细的 Validation 错误
// 其他错误原样包装返回
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate")
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
			Tag:     fe.Tag(),
		})
	}
	return Validation(fields...)
}

// fieldPath 去掉顶层结构体名，如 ExpenseInput.tags[0] -> tags[0]
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email"
	case "httpurl":
		return "must be an http(s) URL"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}
