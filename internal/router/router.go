package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/handler"
	"github.com/stemsi/qpaper-backend/internal/middleware"
	"github.com/stemsi/qpaper-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Question *handler.QuestionHandler
	Chapter  *handler.ChapterHandler
	Catalog  *handler.CatalogHandler
	Media    *handler.MediaHandler
	Paper    *handler.PaperHandler
	Health   *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// uploadLimiter may be nil to leave uploads unthrottled.
func SetupRouter(
	handlers *Handlers,
	uploadLimiter *middleware.UploadLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to ALLOWED_ORIGINS when set, otherwise allow all.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "Location"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.Brotli())

	// Uploaded images never change once written, so cache them for a year.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	if handlers.Health != nil {
		router.GET("/health", handlers.Health.Health)
	} else {
		router.GET("/health", func(c *gin.Context) {
			response.Success(c, http.StatusOK, gin.H{"status": "ok"})
		})
	}

	// ─── Editor contract routes ────────────────────────────────────────
	router.GET("/questions", handlers.Question.List)
	router.POST("/questions", handlers.Question.Create)
	router.GET("/questions/:id", handlers.Question.Get)
	router.PUT("/questions/:id", handlers.Question.Update)
	router.DELETE("/questions/:id", handlers.Question.Delete)
	router.GET("/chapters", handlers.Chapter.List)

	upload := []gin.HandlerFunc{handlers.Media.Upload}
	if uploadLimiter != nil {
		upload = append([]gin.HandlerFunc{uploadLimiter.Middleware()}, upload...)
	}
	router.POST("/upload", upload...)

	// ─── API v1 ────────────────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/catalog", handlers.Catalog.Get)
		api.GET("/questions", handlers.Question.Browse)

		api.GET("/chapters/tree", handlers.Chapter.Tree)
		api.POST("/chapters", handlers.Chapter.Propose)

		papers := api.Group("/papers")
		{
			papers.POST("", handlers.Paper.Create)
			papers.POST("/render", handlers.Paper.RenderSelection)
			papers.GET("/:id", handlers.Paper.Get)
			papers.PATCH("/:id", handlers.Paper.UpdateSettings)
			papers.DELETE("/:id", handlers.Paper.Delete)
			papers.GET("/:id/candidates", handlers.Paper.Candidates)
			papers.POST("/:id/selection/:questionId/toggle", handlers.Paper.Toggle)
			papers.DELETE("/:id/selection/:questionId", handlers.Paper.Remove)
			papers.GET("/:id/render", handlers.Paper.Render)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router
}
