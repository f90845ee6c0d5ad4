package service

import (
	"encoding/json"
	"time"

	"expensetracker/errs"
)

// Date 消费日期，接受 RFC3339 与 YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate 包装 time.Time
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return invalidDate()
	}
	t, err := parseDate(raw)
	if err != nil {
		return invalidDate()
	}
	d.Time = t
	return nil
}

func invalidDate() error {
	return errs.Validation(errs.FieldError{Field: "date", Message: "must be an ISO date", Tag: "iso8601"})
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

func invalidAmount() error {
	return errs.Validation(errs.FieldError{Field: "amount", Message: "must be a number", Tag: "number"})
}
