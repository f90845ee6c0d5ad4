package service

import (
	"net/url"
	"reflect"
	"strings"

	"expensetracker/errs"
	"expensetracker/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 字段名使用 json tag，与请求体保持一致
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	})
	return v
}

// validateStruct 校验失败时返回带字段明细的 Validation 错误
func validateStruct(s interface{}) error {
	return errs.FromValidator(validate.Struct(s))
}

// checkUserID 校验用户 ID 格式
func checkUserID(id string) error {
	if !models.ValidID(id) {
		return errs.ErrInvalidUserID
	}
	return nil
}
