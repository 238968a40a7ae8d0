package service

import (
	"fmt"
	"time"
)

// Period 自然月区间 [Start, End)
type Period struct {
	Start time.Time
	End   time.Time
}

// PeriodBounds 计算 year 年 month 月的区间，12 月的结束时间为次年 1 月 1 日
// month 必须在 1-12 之间，越界属于调用方错误，直接 panic
func PeriodBounds(year, month int, loc *time.Location) Period {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("service: month %d out of range 1-12", month))
	}
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// CurrentPeriod 返回 now 所在自然月的区间
func CurrentPeriod(now time.Time) Period {
	return PeriodBounds(now.Year(), int(now.Month()), now.Location())
}

// Contains 判断 t 是否落在区间内
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// startOfDay 截断到当天零点
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
