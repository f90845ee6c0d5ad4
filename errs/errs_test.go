package errs

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindBadRequest, KindOf(errors.Wrap(ErrInvalidUserID, "ingest")))
	assert.Equal(t, KindNotFound, KindOf(errors.Wrap(ErrUserNotFound, "ingest")))
	assert.Equal(t, KindInternal, KindOf(errors.New("db down")))

	// 导入行错误沿用内部错误的类别
	rowErr := &ImportRowFailure{Row: 3, Err: Validation(FieldError{Field: "amount", Message: "must be > 0"})}
	assert.Equal(t, KindBadRequest, KindOf(rowErr))
	assert.Equal(t, "import row 3: Validation failed", rowErr.Error())
}

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindBadRequest.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusConflict, KindConflict.Status())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.Status())
}

func TestAs(t *testing.T) {
	e, ok := As(errors.Wrap(Validation(FieldError{Field: "title"}), "create"))
	require.True(t, ok)
	assert.Equal(t, "validation_error", e.Code)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "title", e.Fields[0].Field)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestDeliveryFailures(t *testing.T) {
	w := &WebhookDeliveryFailure{URL: "http://hook", Status: 500}
	assert.Equal(t, "webhook http://hook: unexpected status 500", w.Error())

	cause := errors.New("timeout")
	w = &WebhookDeliveryFailure{URL: "http://hook", Err: cause}
	assert.True(t, errors.Is(w, cause))

	m := &MailDeliveryFailure{To: "a@b.c", Err: cause}
	assert.True(t, errors.Is(m, cause))
	assert.Contains(t, m.Error(), "a@b.c")
}
