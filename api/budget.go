package api

import (
	"errors"
	"log"
	"strings"
	"time"

	"spendwatch/middleware"
	"spendwatch/models"
	"spendwatch/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// defaultSuggestedAmount 无消费记录时的建议预算金额
var defaultSuggestedAmount = decimal.NewFromInt(100)

// BudgetHandler 预算处理器
type BudgetHandler struct {
	db         *gorm.DB
	progress   *service.ProgressView
	reminder   *service.Reminder
	aggregator *service.Aggregator
	loc        *time.Location
	now        func() time.Time
	// defaultAlert 未指定提醒阈值时使用的百分比
	defaultAlert int
}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler(db *gorm.DB, store service.Store, reminder *service.Reminder, defaultAlert int, loc *time.Location) *BudgetHandler {
	if loc == nil {
		loc = time.Local
	}
	if defaultAlert < 1 || defaultAlert > 100 {
		defaultAlert = models.DefaultAlertPercentage
	}
	return &BudgetHandler{
		db:           db,
		progress:     service.NewProgressView(store, loc),
		reminder:     reminder,
		aggregator:   service.NewAggregator(store),
		loc:          loc,
		now:          time.Now,
		defaultAlert: defaultAlert,
	}
}

func (h *BudgetHandler) today() time.Time {
	return h.now().In(h.loc)
}

// CreateBudgetRequest 创建预算请求
type CreateBudgetRequest struct {
	Category        string          `json:"category" binding:"required,max=100" example:"Food"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string" example:"500.00"`
	Month           int             `json:"month" binding:"required,min=1,max=12" example:"6"`
	Year            int             `json:"year" binding:"required,min=2000,max=2100" example:"2024"`
	AlertPercentage int             `json:"alert_percentage" binding:"omitempty,min=1,max=100" example:"80"`
}

// UpdateBudgetRequest 更新预算请求
type UpdateBudgetRequest struct {
	Amount          decimal.Decimal `json:"amount" swaggertype:"string" example:"600.00"`
	AlertPercentage int             `json:"alert_percentage" binding:"omitempty,min=1,max=100" example:"90"`
}

// BulkBudgetItem 批量设置中的单个类别
type BulkBudgetItem struct {
	Category string          `json:"category" binding:"required,max=100" example:"Food"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"string" example:"300.00"`
}

// BulkBudgetRequest 批量设置本月预算请求
type BulkBudgetRequest struct {
	Items []BulkBudgetItem `json:"items" binding:"required,min=1,dive"`
}

// BudgetSuggestion 预算调整建议
type BudgetSuggestion struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"string"`
	Existing bool            `json:"existing"`
}

// SuggestionsResponse 预算调整建议响应
type SuggestionsResponse struct {
	Month      int                `json:"month"`
	Year       int                `json:"year"`
	Categories []BudgetSuggestion `json:"categories"`
	Total      decimal.Decimal    `json:"total" swaggertype:"string"`
	PerWeek    decimal.Decimal    `json:"per_week" swaggertype:"string"`
}

// ReminderResult 查看预算时顺带执行的账单提醒结果
type ReminderResult struct {
	Bills []models.Bill `json:"bills"`
	Sent  bool          `json:"sent"`
	Error string        `json:"error,omitempty"`
}

// ProgressResponse 预算进度响应
type ProgressResponse struct {
	Month    int                      `json:"month"`
	Year     int                      `json:"year"`
	Budgets  []service.BudgetProgress `json:"budgets"`
	Reminder ReminderResult           `json:"reminder"`
}

// List 获取预算列表
// @Summary 获取预算列表
// @Description 获取指定月份的预算，默认当前月份
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12"
// @Param year query int false "年份"
// @Success 200 {object} Response{data=[]models.Budget} "获取成功"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	month, year, ok := monthYearQuery(c, h.today())
	if !ok {
		return
	}

	var budgets []models.Budget
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("category ASC").
		Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, budgets)
}

// Create 创建预算
// @Summary 创建预算
// @Description 为某个类别设置月度预算，同一类别同一月份只能有一条
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "预算已存在"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if err := checkAmount(req.Amount, false); err != nil {
		BadRequest(c, err.Error())
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		BadRequest(c, "类别不能为空")
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var existing models.Budget
	err := db.Where("user_id = ? AND category_key = ? AND month = ? AND year = ?",
		userID, models.NormalizeCategory(req.Category), req.Month, req.Year).First(&existing).Error
	if err == nil {
		Conflict(c, "该类别本月预算已存在")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	alert := req.AlertPercentage
	if alert == 0 {
		alert = h.defaultAlert
	}
	budget := models.Budget{
		UserID:          userID,
		Category:        req.Category,
		Amount:          req.Amount,
		Month:           req.Month,
		Year:            req.Year,
		AlertPercentage: alert,
	}
	if err := db.Create(&budget).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建预算失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", budget)
}

// Update 更新预算金额或提醒阈值
// @Summary 更新预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Param request body UpdateBudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := map[string]interface{}{}
	if !req.Amount.IsZero() {
		if err := checkAmount(req.Amount, false); err != nil {
			BadRequest(c, err.Error())
			return
		}
		updates["amount"] = req.Amount
	}
	if req.AlertPercentage != 0 {
		updates["alert_percentage"] = req.AlertPercentage
	}
	if len(updates) == 0 {
		BadRequest(c, "没有需要更新的字段")
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var budget models.Budget
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "预算不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	if err := db.Model(&budget).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新预算失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", budget)
}

// Delete 删除预算
// @Summary 删除预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	result := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Budget{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "删除失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "预算不存在")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// Progress 预算执行进度
// @Summary 预算执行进度
// @Description 计算指定月份每个预算的已花费、百分比与状态；同时检查即将到期的账单并发送提醒
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12"
// @Param year query int false "年份"
// @Success 200 {object} Response{data=ProgressResponse} "获取成功"
// @Router /api/v1/budgets/progress [get]
func (h *BudgetHandler) Progress(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	today := h.today()
	month, year, ok := monthYearQuery(c, today)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "用户不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "查询用户失败"))
		return
	}

	resp := ProgressResponse{Month: month, Year: year}
	bills, sent, err := h.reminder.RemindUser(ctx, user, today)
	resp.Reminder = ReminderResult{Bills: bills, Sent: sent}
	if resp.Reminder.Bills == nil {
		resp.Reminder.Bills = []models.Bill{}
	}
	if err != nil {
		log.Printf("[%s] 账单提醒失败: user=%d err=%v", middleware.GetRequestID(c), userID, err)
		resp.Reminder.Error = SafeErrorMessage(err, "账单提醒失败")
	}

	progress, err := h.progress.Progress(ctx, userID, month, year)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算预算进度失败"))
		return
	}
	resp.Budgets = progress

	Success(c, resp)
}

// Suggestions 本月预算调整建议
// @Summary 预算调整建议
// @Description 返回本月已有预算，以及有消费记录但尚未设置预算的类别（建议金额为本月花费，无花费时为 100）
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=SuggestionsResponse} "获取成功"
// @Router /api/v1/budgets/suggestions [get]
func (h *BudgetHandler) Suggestions(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	today := h.today()
	ctx := c.Request.Context()
	db := h.db.WithContext(ctx)
	month, year := int(today.Month()), today.Year()

	var budgets []models.Budget
	if err := db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("category ASC").Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	resp := SuggestionsResponse{Month: month, Year: year, Categories: make([]BudgetSuggestion, 0)}
	seen := make(map[string]bool)
	for _, b := range budgets {
		seen[models.NormalizeCategory(b.Category)] = true
		resp.Categories = append(resp.Categories, BudgetSuggestion{Category: b.Category, Amount: b.Amount, Existing: true})
	}

	categories, err := distinctCategories(db, userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	period := service.CurrentPeriod(today)
	for _, name := range categories {
		key := models.NormalizeCategory(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		spending, err := h.aggregator.SumSpending(ctx, userID, name, period)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "查询失败"))
			return
		}
		if !spending.IsPositive() {
			spending = defaultSuggestedAmount
		}
		resp.Categories = append(resp.Categories, BudgetSuggestion{Category: name, Amount: spending})
	}

	if len(resp.Categories) == 0 {
		for _, name := range models.GetDefaultCategories() {
			resp.Categories = append(resp.Categories, BudgetSuggestion{Category: name, Amount: defaultSuggestedAmount})
		}
	}

	resp.Total = decimal.Zero
	for _, s := range resp.Categories {
		resp.Total = resp.Total.Add(s.Amount)
	}
	resp.PerWeek = resp.Total.Div(decimal.NewFromInt(4)).Round(2)

	Success(c, resp)
}

// BulkUpsert 批量设置本月预算
// @Summary 批量设置本月预算
// @Description 按类别批量创建或更新当前月份预算，新建预算使用默认提醒阈值
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkBudgetRequest true "预算列表"
// @Success 200 {object} Response{data=[]models.Budget} "保存成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/budgets/bulk [put]
func (h *BudgetHandler) BulkUpsert(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req BulkBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	for i := range req.Items {
		req.Items[i].Category = strings.TrimSpace(req.Items[i].Category)
		if req.Items[i].Category == "" {
			BadRequest(c, "类别不能为空")
			return
		}
		if err := checkAmount(req.Items[i].Amount, false); err != nil {
			BadRequest(c, req.Items[i].Category+": "+err.Error())
			return
		}
	}

	today := h.today()
	month, year := int(today.Month()), today.Year()
	saved := make([]models.Budget, 0, len(req.Items))

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			var budget models.Budget
			err := tx.Where("user_id = ? AND category_key = ? AND month = ? AND year = ?",
				userID, models.NormalizeCategory(item.Category), month, year).First(&budget).Error
			switch {
			case err == nil:
				if err := tx.Model(&budget).Update("amount", item.Amount).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				budget = models.Budget{
					UserID:          userID,
					Category:        item.Category,
					Amount:          item.Amount,
					Month:           month,
					Year:            year,
					AlertPercentage: h.defaultAlert,
				}
				if err := tx.Create(&budget).Error; err != nil {
					return err
				}
			default:
				return err
			}
			saved = append(saved, budget)
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "保存预算失败"))
		return
	}

	SuccessWithMessage(c, "保存成功", saved)
}
