package router

import (
	"net/http"

	"expensetracker/api"
	"expensetracker/config"
	_ "expensetracker/docs"
	"expensetracker/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers 路由用到的处理器
type Handlers struct {
	Users      *api.UserHandler
	Expenses   *api.ExpenseHandler
	Exports    *api.ExportHandler
	Reports    *api.ReportHandler
	Recurring  *api.RecurringHandler
	Categories *api.CategoryHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// CORS 中间件
	r.Use(CORSMiddleware())

	// 耗时较大的接口按 IP 限流
	limited := middleware.RateLimit(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	apiGroup := r.Group("/api")
	{
		users := apiGroup.Group("/users")
		{
			users.POST("", h.Users.Create)
			users.GET("/:id/expenses", h.Reports.Expenses)
			users.GET("/:id/expenses/export", h.Exports.ExportCSV)
			users.GET("/:id/expenses/export/xlsx", h.Exports.ExportXLSX)
			users.GET("/:id/summary", h.Reports.Summary)
			users.GET("/:id/insights", h.Reports.Insights)
			users.GET("/:id/forecast", h.Reports.Forecast)
			users.POST("/:id/test-report", limited, h.Reports.TestReport)
		}

		expenses := apiGroup.Group("/expenses")
		{
			expenses.POST("", h.Expenses.Create)
			expenses.POST("/import", limited, h.Expenses.Import)
		}

		recurring := apiGroup.Group("/recurring")
		{
			recurring.POST("", h.Recurring.Create)
			recurring.POST("/run", limited, h.Recurring.Run)
		}

		categories := apiGroup.Group("/categories")
		{
			categories.GET("", h.Categories.List)
			categories.POST("", h.Categories.Create)
		}
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.NoRoute(func(c *gin.Context) {
		api.NotFound(c, "Route not found")
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
