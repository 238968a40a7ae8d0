package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DateLayout 请求与响应中的日期格式
const DateLayout = "2006-01-02"

var (
	errAmountPrecision = errors.New("金额最多保留两位小数")
	errAmountZero      = errors.New("金额不能为 0")
	errAmountNegative  = errors.New("金额必须大于 0")
)

// checkAmount 校验金额精度，allowNegative 为 false 时要求金额为正
func checkAmount(amount decimal.Decimal, allowNegative bool) error {
	if !amount.Equal(amount.Truncate(2)) {
		return errAmountPrecision
	}
	if amount.IsZero() {
		return errAmountZero
	}
	if !allowNegative && amount.IsNegative() {
		return errAmountNegative
	}
	return nil
}

// parseDate 按指定时区解析 2006-01-02 格式日期
func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// parseID 解析路径参数 id
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// monthYearQuery 读取 month/year 查询参数，缺省为 now 所在月份
func monthYearQuery(c *gin.Context, now time.Time) (int, int, bool) {
	month, year := int(now.Month()), now.Year()
	if s := c.Query("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			BadRequest(c, "月份必须在 1-12 之间")
			return 0, 0, false
		}
		month = m
	}
	if s := c.Query("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 2100 {
			BadRequest(c, "年份必须在 2000-2100 之间")
			return 0, 0, false
		}
		year = y
	}
	return month, year, true
}

// dateRangeQuery 读取 start/end 查询参数，返回 [start, end+1天) 区间
func dateRangeQuery(c *gin.Context, loc *time.Location, required bool) (time.Time, time.Time, bool) {
	startStr, endStr := c.Query("start_date"), c.Query("end_date")
	if startStr == "" || endStr == "" {
		if required {
			BadRequest(c, "请提供开始日期和结束日期")
			return time.Time{}, time.Time{}, false
		}
		return time.Time{}, time.Time{}, true
	}
	start, err := parseDate(startStr, loc)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(endStr, loc)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		BadRequest(c, "结束日期不能早于开始日期")
		return time.Time{}, time.Time{}, false
	}
	return start, end.AddDate(0, 0, 1), true
}
