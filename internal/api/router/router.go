package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/DuongStark/FaceAuthen-Backend/config"
	"github.com/DuongStark/FaceAuthen-Backend/internal/api/handler"
	"github.com/DuongStark/FaceAuthen-Backend/internal/api/middleware"
	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
	"github.com/DuongStark/FaceAuthen-Backend/internal/service"
	"github.com/DuongStark/FaceAuthen-Backend/pkg/jwt"
	"github.com/DuongStark/FaceAuthen-Backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, gateSvc service.IPGateService, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))
	r.Use(middleware.RateLimit(rdb, cfg.Server.RateLimitPerMin, time.Minute))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── API v1 ──
	// IP 网关挂在整个 API 前面：开关关闭或查询白名单失败时放行
	v1 := r.Group("/api/v1")
	v1.Use(middleware.IPCheck(gateSvc))
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// 签到终端自检（无需登录，返回本机 IP 的放行结果）
		v1.GET("/ip-config/current-ip", h.IPConfig.CheckIP)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/profile", h.Auth.Profile)

			// 班级模块
			classes := authorized.Group("/classes")
			{
				classes.POST("", h.Class.Create)
				classes.GET("", h.Class.List)
				classes.GET("/:id", h.Class.Get)
				classes.PUT("/:id", h.Class.Update)
				classes.DELETE("/:id", h.Class.Delete)

				// 学生名册
				classes.POST("/:id/students/import", h.Student.Import)
				classes.POST("/:id/students/import-csv", h.Student.ImportCSV)
				classes.GET("/:id/students", h.Student.List)
				classes.DELETE("/:id/students/:studentId", h.Student.Delete)

				// 班级维度的课程安排与会话
				classes.GET("/:id/schedules", h.Schedule.ListByClass)
				classes.GET("/:id/sessions", h.Session.ListByClass)
				classes.GET("/:id/sessions/active", h.Session.GetActive)

				// 统计与导出
				classes.GET("/:id/statistics", h.Statistics.ClassStatistics)
				classes.GET("/:id/statistics/export", h.Statistics.ExportClassAttendance)
			}

			// 课程安排模块
			schedules := authorized.Group("/schedules")
			{
				schedules.POST("", h.Schedule.Create)
				schedules.GET("/:id", h.Schedule.Get)
				schedules.PUT("/:id", h.Schedule.Update)
				schedules.DELETE("/:id", h.Schedule.Delete)
				schedules.GET("/:id/sessions", h.Schedule.ListSessions)
			}
			authorized.PATCH("/schedule-sessions/:id", h.Schedule.UpdateSession)

			// 签到会话模块
			sessions := authorized.Group("/sessions")
			{
				sessions.POST("", h.Session.Start)
				sessions.GET("/:id", h.Session.Get)
				sessions.POST("/:id/end", h.Session.End)
				sessions.GET("/:id/statistics", h.Statistics.SessionStatistics)

				sessions.POST("/:id/attendances", h.Attendance.Record)
				sessions.GET("/:id/attendances", h.Attendance.List)
				sessions.GET("/:id/attendances/subscribe", h.Attendance.Subscribe)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PATCH("/:id/read", h.Notification.MarkRead)
				notifications.PATCH("/read-all", h.Notification.MarkAllRead)
				notifications.DELETE("/:id", h.Notification.Delete)
				notifications.POST("", middleware.RoleAuth(model.RoleAdmin), h.Notification.Create)
			}

			// IP 白名单管理（仅管理员）
			ipConfig := authorized.Group("/ip-config", middleware.RoleAuth(model.RoleAdmin))
			{
				ipConfig.GET("", h.IPConfig.GetConfig)
				ipConfig.PUT("", h.IPConfig.UpdateConfig)
				ipConfig.POST("/allowed", h.IPConfig.CreateEntry)
				ipConfig.GET("/allowed", h.IPConfig.ListEntries)
				ipConfig.PUT("/allowed/:id", h.IPConfig.UpdateEntry)
				ipConfig.DELETE("/allowed/:id", h.IPConfig.DeleteEntry)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
