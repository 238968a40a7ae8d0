package api

import (
	"sort"
	"time"

	"spendwatch/middleware"
	"spendwatch/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatisticsHandler 图表统计处理器
type StatisticsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

// NewStatisticsHandler 创建统计处理器
func NewStatisticsHandler(db *gorm.DB, loc *time.Location) *StatisticsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &StatisticsHandler{db: db, loc: loc}
}

// MonthlyTotal 月度合计
type MonthlyTotal struct {
	Month string          `json:"month" example:"2024-06"`
	Total decimal.Decimal `json:"total" swaggertype:"string"`
}

// CategoryTotal 类别合计
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total" swaggertype:"string"`
}

// StatisticsResponse 图表数据
type StatisticsResponse struct {
	Monthly    []MonthlyTotal  `json:"monthly"`
	Categories []CategoryTotal `json:"categories"`
	Income     decimal.Decimal `json:"income" swaggertype:"string"`
	Expense    decimal.Decimal `json:"expense" swaggertype:"string"`
	Count      int             `json:"count"`
}

// Overview 收支图表数据
// @Summary 收支统计
// @Description 返回月度合计、类别合计以及收入（正数金额）与支出（负数金额取绝对值）对比；不传日期时统计全部记录
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=StatisticsResponse} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/statistics [get]
func (h *StatisticsHandler) Overview(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end, ok := dateRangeQuery(c, h.loc, false)
	if !ok {
		return
	}

	query := h.db.WithContext(c.Request.Context()).
		Select("amount, category, category_key, date").
		Where("user_id = ?", userID)
	if !start.IsZero() {
		query = query.Where("date >= ? AND date < ?", start, end)
	}

	var transactions []models.Transaction
	if err := query.Order("date ASC, id ASC").Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, summarize(transactions))
}

// summarize 按月份与类别汇总；类别按归一化键合并，展示首次出现的写法
func summarize(transactions []models.Transaction) StatisticsResponse {
	resp := StatisticsResponse{
		Monthly:    make([]MonthlyTotal, 0),
		Categories: make([]CategoryTotal, 0),
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		Count:      len(transactions),
	}

	monthIndex := make(map[string]int)
	categoryIndex := make(map[string]int)
	for _, t := range transactions {
		month := t.Date.Format("2006-01")
		i, ok := monthIndex[month]
		if !ok {
			i = len(resp.Monthly)
			monthIndex[month] = i
			resp.Monthly = append(resp.Monthly, MonthlyTotal{Month: month, Total: decimal.Zero})
		}
		resp.Monthly[i].Total = resp.Monthly[i].Total.Add(t.Amount)

		key := t.CategoryKey
		if key == "" {
			key = models.NormalizeCategory(t.Category)
		}
		j, ok := categoryIndex[key]
		if !ok {
			j = len(resp.Categories)
			categoryIndex[key] = j
			resp.Categories = append(resp.Categories, CategoryTotal{Category: t.Category, Total: decimal.Zero})
		}
		resp.Categories[j].Total = resp.Categories[j].Total.Add(t.Amount)

		switch {
		case t.Amount.IsPositive():
			resp.Income = resp.Income.Add(t.Amount)
		case t.Amount.IsNegative():
			resp.Expense = resp.Expense.Sub(t.Amount)
		}
	}

	sort.SliceStable(resp.Monthly, func(a, b int) bool {
		return resp.Monthly[a].Month < resp.Monthly[b].Month
	})
	sort.SliceStable(resp.Categories, func(a, b int) bool {
		return resp.Categories[a].Total.Abs().GreaterThan(resp.Categories[b].Total.Abs())
	})
	return resp
}
