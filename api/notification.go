package api

import (
	"spendwatch/middleware"
	"spendwatch/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NotificationHandler 通知记录处理器
type NotificationHandler struct {
	db *gorm.DB
}

// NewNotificationHandler 创建通知记录处理器
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// List 最近的通知发送记录
// @Summary 通知发送记录
// @Description 返回当前用户最近 50 条提醒邮件的发送记录（含失败与跳过）
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Notification} "获取成功"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.Notification
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(50).
		Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}
