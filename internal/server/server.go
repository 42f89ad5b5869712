package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Pascal-138/GroceryAssistant/config"
	"github.com/Pascal-138/GroceryAssistant/internal/api"
	"github.com/Pascal-138/GroceryAssistant/internal/database"
	"github.com/Pascal-138/GroceryAssistant/internal/router"
	"github.com/Pascal-138/GroceryAssistant/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New wires services, handlers and routes into a server instance. The
// redis client and S3 config may be nil.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config) *Server {
	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret)
	imageService := service.NewImageService(s3Config, cfg.MediaDir)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(db, imageService),
		api.NewTagHandler(db),
		api.NewIngredientHandler(db),
		api.NewUserHandler(db),
		authService,
	)

	s := &Server{
		router: engine,
		db:     db,
		redis:  redisClient,
	}
	engine.GET("/health", s.health)

	s.http = &http.Server{
		Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
		Handler: engine,
	}
	return s
}

// Start begins serving; it blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, s.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
