package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"parking-service/internal/config"
)

// NewRouter assembles the gin engine: recovery and correlation-id
// middleware on every route, CORS per configuration, public session
// and query routes, admin routes behind JWT auth.
func NewRouter(cfg *config.Config, handler *Handler, adminHandler *AdminHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CorrelationID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", correlationIDHeader},
		ExposeHeaders:    []string{correlationIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.Register(r)
	adminHandler.Register(r, RequireAuth(cfg.Auth.JWTSecret))

	return r
}
