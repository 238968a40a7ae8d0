package router

import (
	"net/http"
	"time"

	"spendwatch/api"
	"spendwatch/config"
	"spendwatch/database"
	_ "spendwatch/docs"
	"spendwatch/middleware"
	"spendwatch/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services 由 serve 命令组装并注入的业务组件
type Services struct {
	Store    *database.Store
	Alerter  *service.BudgetAlerter
	Reminder *service.Reminder
}

// NewServices 基于数据库与邮件发送器组装预算提醒组件
func NewServices(cfg *config.Config, db *gorm.DB, sender service.Sender) *Services {
	store := database.NewStore(db)
	loc := cfg.Budget.Location
	dispatcher := service.NewDispatcher(sender, store).WithBaseURL(cfg.Server.BaseURL)
	return &Services{
		Store:    store,
		Alerter:  service.NewBudgetAlerter(service.NewEvaluator(store, nil, loc), dispatcher),
		Reminder: service.NewReminder(service.NewBillScanner(store), dispatcher, cfg.Budget.ReminderLookaheadDays),
	}
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *gorm.DB, svc *Services) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	loc := cfg.Budget.Location
	authHandler := api.NewAuthHandler(cfg, db)
	transactionHandler := api.NewTransactionHandler(db, svc.Alerter, loc)
	budgetHandler := api.NewBudgetHandler(db, svc.Store, svc.Reminder, cfg.Budget.DefaultAlertPercentage, loc)
	billHandler := api.NewBillHandler(db, svc.Store, cfg.Budget.ReminderLookaheadDays, loc)
	statisticsHandler := api.NewStatisticsHandler(db, loc)
	exportHandler := api.NewExportHandler(db, svc.Store, loc)
	notificationHandler := api.NewNotificationHandler(db)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/profile", authHandler.UpdateProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/categories", transactionHandler.Categories)
				transactions.GET("/:id", transactionHandler.Get)
			}

			budgets := authorized.Group("/budgets")
			{
				budgets.GET("", budgetHandler.List)
				budgets.POST("", budgetHandler.Create)
				budgets.GET("/progress", budgetHandler.Progress)
				budgets.GET("/suggestions", budgetHandler.Suggestions)
				budgets.PUT("/bulk", budgetHandler.BulkUpsert)
				budgets.PUT("/:id", budgetHandler.Update)
				budgets.DELETE("/:id", budgetHandler.Delete)
			}

			bills := authorized.Group("/bills")
			{
				bills.POST("", billHandler.Create)
				bills.GET("", billHandler.List)
				bills.GET("/due-soon", billHandler.DueSoon)
				bills.DELETE("/:id", billHandler.Delete)
			}

			authorized.GET("/statistics", statisticsHandler.Overview)
			authorized.GET("/notifications", notificationHandler.List)

			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/json", exportHandler.ExportJSON)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
