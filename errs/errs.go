// Package errs 定义业务错误分类，边界层据此映射 HTTP 状态码
package errs

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind 错误类别
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
	KindConflict
)

// Status 类别对应的 HTTP 状态码
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FieldError 单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// Error 业务错误
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrInvalidUserID = &Error{Kind: KindBadRequest, Code: "invalid_user_id", Message: "Invalid user id"}
	ErrUserNotFound  = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "User not found"}
)

// Validation 字段校验失败
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindBadRequest, Code: "validation_error", Message: "Validation failed", Fields: fields}
}

// BadRequest 通用请求错误
func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Code: "bad_request", Message: msg}
}

// Conflict 唯一性冲突
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Code: "conflict", Message: msg}
}

// ImportRowFailure CSV 导入中某一行失败，Row 从 1 开始（不含表头）
type ImportRowFailure struct {
	Row int
	Err error
}

func (e *ImportRowFailure) Error() string {
	return fmt.Sprintf("import row %d: %v", e.Row, e.Err)
}

func (e *ImportRowFailure) Unwrap() error { return e.Err }

// WebhookDeliveryFailure webhook 投递失败，只记录不上抛
type WebhookDeliveryFailure struct {
	URL    string
	Status int
	Err    error
}

func (e *WebhookDeliveryFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("webhook %s: unexpected status %d", e.URL, e.Status)
}

func (e *WebhookDeliveryFailure) Unwrap() error { return e.Err }

// MailDeliveryFailure 邮件发送失败
type MailDeliveryFailure struct {
	To  string
	Err error
}

func (e *MailDeliveryFailure) Error() string {
	return fmt.Sprintf("mail to %s: %v", e.To, e.Err)
}

func (e *MailDeliveryFailure) Unwrap() error { return e.Err }

// KindOf 返回错误链上第一个业务错误的类别，未知错误视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As 取出错误链上的业务错误
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
