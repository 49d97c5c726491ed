package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sotaworks/honne/config"
	"github.com/sotaworks/honne/controllers"
	"github.com/sotaworks/honne/middleware"
	"github.com/sotaworks/honne/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, db *gorm.DB) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record board views after each request
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	suggestionController := controllers.NewSuggestionController(cfg, db)
	discussionController := controllers.NewDiscussionController(db)
	timelineController := controllers.NewTimelineController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	api.GET("/posts", suggestionController.ListSuggestions)
	api.POST("/posts", suggestionController.CreateSuggestion)
	api.GET("/posts/count", suggestionController.CountSuggestions)
	api.GET("/posts/likes/count", suggestionController.CountLikes)
	api.POST("/posts/:id/like", suggestionController.LikeSuggestion)

	api.GET("/discussions", discussionController.ListDiscussions)
	api.POST("/discussions", discussionController.CreateDiscussion)
	api.GET("/discussions/:id", discussionController.GetDiscussion)
	api.PUT("/discussions/:id", discussionController.UpdateDiscussion)
	api.PUT("/discussions/:id/free-space", discussionController.UpdateFreeSpace)
	api.DELETE("/discussions/:id", discussionController.DeleteDiscussion)

	api.GET("/discussions/:id/timeline", timelineController.ListTimeline)
	api.POST("/discussions/:id/timeline", timelineController.AppendTimelineEntry)
	api.PUT("/discussions/:id/timeline/:entryId", timelineController.UpdateTimelineEntry)
	api.DELETE("/discussions/:id/timeline/:entryId", timelineController.DeleteTimelineEntry)

	api.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
