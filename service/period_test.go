package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodBounds(t *testing.T) {
	p := PeriodBounds(2024, 6, time.UTC)
	assert.Equal(t, date(2024, time.June, 1), p.Start)
	assert.Equal(t, date(2024, time.July, 1), p.End)

	// 12 月跨年
	for _, year := range []int{1999, 2023, 2024, 2100} {
		dec := PeriodBounds(year, 12, time.UTC)
		assert.Equal(t, date(year, time.December, 1), dec.Start)
		assert.Equal(t, date(year+1, time.January, 1), dec.End)
	}

	// 闰年二月
	feb := PeriodBounds(2024, 2, time.UTC)
	assert.Equal(t, date(2024, time.March, 1), feb.End)
}

func TestPeriodBounds_InvalidMonthPanics(t *testing.T) {
	assert.Panics(t, func() { PeriodBounds(2024, 0, time.UTC) })
	assert.Panics(t, func() { PeriodBounds(2024, 13, time.UTC) })
}

func TestPeriodContains(t *testing.T) {
	p := PeriodBounds(2024, 6, time.UTC)
	assert.True(t, p.Contains(date(2024, time.June, 1)))
	assert.True(t, p.Contains(date(2024, time.June, 30).Add(23*time.Hour)))
	assert.False(t, p.Contains(date(2024, time.July, 1)))
	assert.False(t, p.Contains(date(2024, time.May, 31)))
}

func TestCurrentPeriod(t *testing.T) {
	now := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	p := CurrentPeriod(now)
	assert.Equal(t, date(2024, time.December, 1), p.Start)
	assert.Equal(t, date(2025, time.January, 1), p.End)
}
