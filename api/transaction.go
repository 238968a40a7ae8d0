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

// TransactionHandler 收支记录处理器
type TransactionHandler struct {
	db      *gorm.DB
	alerter *service.BudgetAlerter
	loc     *time.Location
}

// NewTransactionHandler 创建收支记录处理器
func NewTransactionHandler(db *gorm.DB, alerter *service.BudgetAlerter, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.Local
	}
	return &TransactionHandler{db: db, alerter: alerter, loc: loc}
}

// CreateTransactionRequest 创建收支记录请求
type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"99.99"`
	Category    string          `json:"category" binding:"required,max=100" example:"Food"`
	Date        string          `json:"date" binding:"required" example:"2024-06-15"`
	Description string          `json:"description" example:"午餐"`
}

// TransactionListRequest 收支记录列表请求
type TransactionListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"20"`
	Category  string `form:"category" example:"Food"`
	StartDate string `form:"start_date" example:"2024-01-01"`
	EndDate   string `form:"end_date" example:"2024-12-31"`
}

// NotificationResult 预算检查结果
type NotificationResult struct {
	Action     service.Action  `json:"action" swaggertype:"string" example:"approaching"`
	Sent       bool            `json:"sent"`
	Percentage int64           `json:"percentage"`
	Spending   decimal.Decimal `json:"spending" swaggertype:"string"`
	Error      string          `json:"error,omitempty"`
}

// CreateTransactionResponse 创建收支记录响应
type CreateTransactionResponse struct {
	Transaction  models.Transaction `json:"transaction"`
	Notification NotificationResult `json:"notification"`
}

// Create 创建收支记录，保存后立即检查本月预算
// @Summary 创建收支记录
// @Description 保存一条收支记录，随后按当前月份检查该类别预算，超出或接近预算时发送邮件提醒
// @Tags 收支记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "收支记录"
// @Success 200 {object} Response{data=CreateTransactionResponse} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if err := checkAmount(req.Amount, true); err != nil {
		BadRequest(c, err.Error())
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		BadRequest(c, "类别不能为空")
		return
	}
	date, err := parseDate(req.Date, h.loc)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	txn := models.Transaction{
		UserID:      userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&txn).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建收支记录失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", CreateTransactionResponse{
		Transaction:  txn,
		Notification: h.checkBudget(c, userID, txn),
	})
}

// checkBudget 交易已落库，预算检查失败不影响创建结果
func (h *TransactionHandler) checkBudget(c *gin.Context, userID uint, txn models.Transaction) NotificationResult {
	ctx := c.Request.Context()

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		log.Printf("[%s] 预算检查跳过，用户不存在: user=%d err=%v", middleware.GetRequestID(c), userID, err)
		return NotificationResult{Action: service.NoAction, Error: SafeErrorMessage(err, "用户不存在")}
	}

	decision, sent, err := h.alerter.CheckAndNotify(ctx, user, txn.Category, txn.Amount)
	result := NotificationResult{
		Action:     decision.Action,
		Sent:       sent,
		Percentage: decision.Percentage,
		Spending:   decision.Spending,
	}
	if err != nil {
		fallback := "预算检查失败"
		if errors.Is(err, service.ErrDispatch) {
			fallback = "提醒邮件发送失败"
		}
		log.Printf("[%s] %s: user=%d category=%s err=%v", middleware.GetRequestID(c), fallback, userID, txn.Category, err)
		result.Error = SafeErrorMessage(err, fallback)
	}
	return result
}

// List 获取收支记录列表
// @Summary 获取收支记录列表
// @Description 获取当前用户的收支记录，按日期倒序，支持分页与类别、日期筛选
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param category query string false "类别筛选（不区分大小写）"
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := h.db.WithContext(c.Request.Context()).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if req.Category != "" {
		query = query.Where("category_key = ?", models.NormalizeCategory(req.Category))
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate, h.loc)
		if err != nil {
			BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
			return
		}
		query = query.Where("date >= ?", start)
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate, h.loc)
		if err != nil {
			BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
			return
		}
		query = query.Where("date < ?", end.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var list []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC, id DESC").Offset(offset).Limit(req.PageSize).Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     list,
	})
}

// Get 获取单条收支记录
// @Summary 获取单条收支记录
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var txn models.Transaction
	if err := h.db.WithContext(c.Request.Context()).Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "记录不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, txn)
}

// Categories 获取用户使用过的类别
// @Summary 获取类别列表
// @Description 返回当前用户收支记录中出现过的类别（去重）
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]string} "获取成功"
// @Router /api/v1/transactions/categories [get]
func (h *TransactionHandler) Categories(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	categories, err := distinctCategories(h.db.WithContext(c.Request.Context()), userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, categories)
}

// distinctCategories 按归一化键去重，每个键保留最早出现的写法
func distinctCategories(db *gorm.DB, userID uint) ([]string, error) {
	var rows []struct {
		Category    string
		CategoryKey string
	}
	err := db.Model(&models.Transaction{}).
		Select("category, category_key").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	categories := make([]string, 0)
	for _, r := range rows {
		if seen[r.CategoryKey] {
			continue
		}
		seen[r.CategoryKey] = true
		categories = append(categories, r.Category)
	}
	return categories, nil
}
