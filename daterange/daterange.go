// Package daterange 把零基月份/年份解析为自然月的起止时间
package daterange

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// Range 闭区间 [Start, End]，End 精确到毫秒
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains t 是否落在区间内
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Month 零基月份 0-11
func (r Range) Month() int { return int(r.Start.Month()) - 1 }

// Year 年份
func (r Range) Year() int { return r.Start.Year() }

// Label 形如 2024-03
func (r Range) Label() string {
	return fmt.Sprintf("%04d-%02d", r.Start.Year(), int(r.Start.Month()))
}

// Previous 上一个自然月
func (r Range) Previous() Range {
	return of(r.Start.AddDate(0, -1, 0))
}

// Next 下一个自然月
func (r Range) Next() Range {
	return of(r.Start.AddDate(0, 1, 0))
}

// MonthRange 以当前时间为基准解析，month 为零基，缺省取当前月/年
func MonthRange(month, year *int) Range {
	return Resolve(time.Now(), month, year)
}

// Resolve 以 ref 为基准解析，时区沿用 ref
func Resolve(ref time.Time, month, year *int) Range {
	m := int(ref.Month()) - 1
	if month != nil {
		m = *month
	}
	y := ref.Year()
	if year != nil {
		y = *year
	}
	return of(time.Date(y, time.Month(m+1), 1, 0, 0, 0, 0, ref.Location()))
}

// Current ref 所在自然月
func Current(ref time.Time) Range {
	return Resolve(ref, nil, nil)
}

func of(t time.Time) Range {
	n := now.With(t)
	return Range{
		Start: n.BeginningOfMonth(),
		End:   n.EndOfMonth().Truncate(time.Millisecond),
	}
}
