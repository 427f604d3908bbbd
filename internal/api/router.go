package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/triprisk-backend-go/internal/config"
	"github.com/jengzang/triprisk-backend-go/internal/handler"
	"github.com/jengzang/triprisk-backend-go/internal/middleware"
	"github.com/jengzang/triprisk-backend-go/pkg/response"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Risk        *handler.RiskHandler
	Assessments *handler.AssessmentHandler
	Health      *handler.HealthHandler

	// RateLimiter 为 nil 时不限流
	RateLimiter *middleware.RateLimiter
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	// 健康检查与指标
	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由组
	api := r.Group("/api/v1")
	if h.RateLimiter != nil {
		api.Use(h.RateLimiter.Middleware())
	}
	api.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
	{
		// 行程评分
		api.POST("/risk-score", h.Risk.Score)
		api.POST("/features", h.Risk.Features)

		// 评估记录
		assessments := api.Group("/assessments")
		{
			assessments.GET("", h.Assessments.GetAssessments)
			assessments.GET("/:id", h.Assessments.GetAssessmentByID)
		}
	}

	return r
}
