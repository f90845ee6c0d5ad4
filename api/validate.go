package api

import (
	"reflect"
	"strings"

	"expensetracker/errs"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

func init() {
	// 校验错误中的字段名与请求参数保持一致
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	}
}

// PeriodQuery 月份从 0 开始
type PeriodQuery struct {
	Month *int `form:"month" json:"month" binding:"omitempty,min=0,max=11" example:"2"`
	Year  *int `form:"year" json:"year" binding:"omitempty,min=1970,max=3000" example:"2024"`
}

func bindQuery(c *gin.Context, obj interface{}) error {
	return bindErr(c.ShouldBindQuery(obj), "Invalid query parameters")
}

func bindJSON(c *gin.Context, obj interface{}) error {
	return bindErr(c.ShouldBindJSON(obj), "Invalid JSON body")
}

func bindErr(err error, message string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return errs.FromValidator(verrs)
	}
	// 自定义字段解码（如日期）直接返回字段级错误
	if _, ok := errs.As(err); ok {
		return err
	}
	return errs.BadRequest(message)
}
