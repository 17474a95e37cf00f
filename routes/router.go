package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/config"
	"github.com/planwise/planwise/controllers"
	"github.com/planwise/planwise/middleware"
	"github.com/planwise/planwise/services"
	"github.com/planwise/planwise/utils"
)

// Store is everything the HTTP layer persists through; *store.Store satisfies it.
type Store interface {
	controllers.UserStore
	controllers.MoodStore
	controllers.SleepStore
	controllers.SkillStore
	controllers.EventStore
	services.TaskStore
	services.AnalyticsStore
	services.SkillStore
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, st Store) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.GinPath != "" {
		gl := utils.NewRollingFileLogger(cfg.GinPath, cfg)
		r.Use(utils.Ginzap(gl), utils.RecoveryWithZap(gl, true))
	} else {
		r.Use(utils.Ginzap(utils.Logger), utils.RecoveryWithZap(utils.Logger, true))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestMetrics())

	controllers.RegisterValidators()

	taskService := services.NewTaskService(st)
	analytics := services.NewAnalytics(st)
	skillService := services.NewSkillService(st)

	meta := controllers.NewMetaController()
	authController := controllers.NewAuthController(st)
	userController := controllers.NewUserController(st)
	taskController := controllers.NewTaskController(taskService)
	moodController := controllers.NewMoodController(st)
	sleepController := controllers.NewSleepController(st, st)
	skillController := controllers.NewSkillController(st, skillService)
	analyticsController := controllers.NewAnalyticsController(st, analytics, time.Duration(cfg.DashboardCacheSeconds)*time.Second)
	campusController := controllers.NewCampusController(st)

	r.GET("/", meta.Banner)
	r.GET("/health", meta.Health)
	r.GET("/metrics", gin.WrapH(utils.MetricsHandler()))

	limit := middleware.RateLimit(cfg.RateLimitPerMinute)
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(limit)
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/:provider/callback", authController.OAuthCallback)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), limit)

	protected.GET("/users/me", userController.Me)
	protected.PUT("/users/me", userController.UpdateMe)
	api.GET("/users/:id", limit, userController.GetPublic)

	protected.POST("/tasks", taskController.Create)
	protected.GET("/tasks", taskController.List)
	protected.GET("/tasks/:id", taskController.Get)
	protected.PUT("/tasks/:id", taskController.Update)
	protected.DELETE("/tasks/:id", taskController.Delete)

	protected.POST("/mood", moodController.Create)
	protected.GET("/mood", moodController.List)
	protected.GET("/mood/latest", moodController.Latest)

	protected.POST("/sleep", sleepController.Create)
	protected.GET("/sleep", sleepController.List)
	protected.GET("/sleep/debt", sleepController.Debt)

	protected.POST("/skills", skillController.Create)
	protected.GET("/skills", skillController.List)
	protected.GET("/skills/achievements", skillController.Achievements)
	protected.PUT("/skills/:id/practice", skillController.Practice)

	protected.GET("/analytics/dashboard", analyticsController.Dashboard)
	protected.GET("/analytics/productivity-trends", analyticsController.ProductivityTrends)

	protected.POST("/campus/events", campusController.Create)
	protected.GET("/campus/events", campusController.List)
	protected.GET("/campus/events/:id", campusController.Get)
	protected.DELETE("/campus/events/:id", campusController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
