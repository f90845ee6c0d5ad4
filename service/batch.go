package service

import (
	"strings"

	"expensetracker/config"
	"expensetracker/errs"
)

// BatchPolicy 批量处理中单项失败后的策略
type BatchPolicy int

const (
	// AbortOnError 第一个失败即停止，之前成功的项保留
	AbortOnError BatchPolicy = iota
	// ContinueOnError 逐项处理，失败项记录在结果中
	ContinueOnError
)

func (p BatchPolicy) String() string {
	if p == ContinueOnError {
		return config.OnErrorContinue
	}
	return config.OnErrorAbort
}

// ParseBatchPolicy 空串返回 fallback
func ParseBatchPolicy(s string, fallback BatchPolicy) (BatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return fallback, nil
	case config.OnErrorAbort:
		return AbortOnError, nil
	case config.OnErrorContinue:
		return ContinueOnError, nil
	default:
		return fallback, errs.BadRequest("onError must be abort or continue")
	}
}
