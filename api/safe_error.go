package api

import (
	"fmt"
	"net/http"
	"reflect"

	"expensetracker/config"
	"expensetracker/errs"
	"expensetracker/logger"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Fail 按错误类别写响应，data 用于返回部分完成的批量结果
// 内部错误在 release 模式下只返回 fallback
func Fail(c *gin.Context, cfg *config.Config, err error, fallback string, data ...interface{}) {
	resp := Response{}
	if len(data) > 0 && !isNil(data[0]) {
		resp.Data = data[0]
	}

	kind := errs.KindOf(err)
	if kind == errs.KindInternal {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		resp.Code = http.StatusInternalServerError
		resp.Message = cfg.SafeErrorMessage(err, fallback)
		c.JSON(resp.Code, resp)
		return
	}

	e, _ := errs.As(err)
	resp.Code = kind.Status()
	resp.Message = e.Message
	resp.Errors = e.Fields

	var rowErr *errs.ImportRowFailure
	if errors.As(err, &rowErr) {
		resp.Message = fmt.Sprintf("Row %d: %s", rowErr.Row, e.Message)
	}
	c.JSON(resp.Code, resp)
}

func isNil(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil())
}
