package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecker 保存先の疎通確認
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RouterDeps ルーターに渡すハンドラー一式。Health は nil なら疎通確認を省略する
type RouterDeps struct {
	Location *LocationHandler
	Kyusei   *KyuseiHandler
	Overlay  *OverlayHandler
	Health   HealthChecker
}

// NewRouter APIのルーティングを設定
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api")
	api.GET("/health", healthHandler(deps.Health))

	api.POST("/geocode", deps.Location.Geocode)
	api.GET("/locations", deps.Location.FindLocation)
	api.GET("/locations/:id", deps.Location.GetLocation)
	api.POST("/locations", deps.Location.CreateLocation)
	api.PUT("/locations/:id", deps.Location.UpdateLocation)

	api.GET("/markers", deps.Location.ListMarkers)
	api.POST("/markers", deps.Location.CreateMarker)
	api.PUT("/markers/:id", deps.Location.UpdateMarker)
	api.DELETE("/markers/:id", deps.Location.DeleteMarker)

	api.GET("/feng-shui-analysis/:locationId", deps.Location.GetFengShuiAnalysis)
	api.POST("/feng-shui-analysis", deps.Location.CreateFengShuiAnalysis)
	api.GET("/feng-shui/direction", deps.Location.GetFengShuiDirection)
	api.GET("/elevation", deps.Location.GetElevation)
	api.GET("/directions", deps.Location.GetDirectionLines)

	kyusei := api.Group("/kyusei")
	kyusei.GET("/stars", deps.Kyusei.ListStars)
	kyusei.POST("/analysis", deps.Kyusei.PostAnalysis)
	kyusei.GET("/analyses", deps.Kyusei.ListAnalyses)
	kyusei.GET("/analysis/:locationId", deps.Kyusei.GetAnalysisByLocation)
	api.GET("/profiles/:sessionId", deps.Kyusei.GetProfile)

	api.POST("/overlays", deps.Overlay.PostOverlay)
	api.GET("/overlays/:id", deps.Overlay.GetOverlay)
	api.DELETE("/overlays/:id", deps.Overlay.DeleteOverlay)

	return r
}

func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			if err := checker.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "Kyusei-App",
					"message": err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Kyusei-App"})
	}
}

// requestLogger アクセスログを zap に出す
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.L().Info("🌐 request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
