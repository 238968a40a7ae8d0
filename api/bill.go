package api

import (
	"strconv"
	"strings"
	"time"

	"spendwatch/middleware"
	"spendwatch/models"
	"spendwatch/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxLookaheadDays 到期查询最多向后看的天数
const maxLookaheadDays = 365

// BillHandler 账单处理器
type BillHandler struct {
	db        *gorm.DB
	scanner   *service.BillScanner
	lookahead int
	loc       *time.Location
	now       func() time.Time
}

// NewBillHandler 创建账单处理器
func NewBillHandler(db *gorm.DB, store service.Store, lookaheadDays int, loc *time.Location) *BillHandler {
	if lookaheadDays <= 0 {
		lookaheadDays = service.DefaultReminderLookaheadDays
	}
	if loc == nil {
		loc = time.Local
	}
	return &BillHandler{
		db:        db,
		scanner:   service.NewBillScanner(store),
		lookahead: lookaheadDays,
		loc:       loc,
		now:       time.Now,
	}
}

// CreateBillRequest 创建账单请求
type CreateBillRequest struct {
	Name        string          `json:"name" binding:"required,max=100" example:"房租"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"3000.00"`
	DueDate     string          `json:"due_date" binding:"required" example:"2024-06-05"`
	Description string          `json:"description" example:"六月房租"`
}

// Create 创建账单
// @Summary 创建账单
// @Tags 账单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBillRequest true "账单信息"
// @Success 200 {object} Response{data=models.Bill} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "账单名称不能为空")
		return
	}
	if err := checkAmount(req.Amount, false); err != nil {
		BadRequest(c, err.Error())
		return
	}
	dueDate, err := parseDate(req.DueDate, h.loc)
	if err != nil {
		BadRequest(c, "到期日格式错误，应为: 2006-01-02")
		return
	}

	bill := models.Bill{
		UserID:      userID,
		Name:        req.Name,
		Amount:      req.Amount,
		DueDate:     dueDate,
		Description: req.Description,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&bill).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建账单失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", bill)
}

// List 获取账单列表
// @Summary 获取账单列表
// @Description 按到期日升序返回当前用户的全部账单
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Bill} "获取成功"
// @Router /api/v1/bills [get]
func (h *BillHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var bills []models.Bill
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("due_date ASC, id ASC").
		Find(&bills).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, bills)
}

// Delete 删除账单
// @Summary 删除账单
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Param id path int true "账单ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "账单不存在"
// @Router /api/v1/bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	result := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Bill{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "删除失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "账单不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// DueSoon 即将到期的账单
// @Summary 即将到期的账单
// @Description 返回到期日在 [今天, 今天+days] 内的账单，不发送提醒
// @Tags 账单
// @Produce json
// @Security BearerAuth
// @Param days query int false "向后查看的天数" default(7)
// @Success 200 {object} Response{data=[]models.Bill} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/bills/due-soon [get]
func (h *BillHandler) DueSoon(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	days := h.lookahead
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > maxLookaheadDays {
			BadRequest(c, "days 必须在 0-365 之间")
			return
		}
		days = n
	}

	bills, err := h.scanner.DueSoon(c.Request.Context(), userID, h.now().In(h.loc), days)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, bills)
}
