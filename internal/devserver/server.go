package devserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prattikkk/Incubyte/internal/config"
	"github.com/prattikkk/Incubyte/internal/models"
)

const requestIDHeader = "X-Request-Id"

// Server is an in-memory stand-in for the sweets backend, speaking the same
// HTTP contract the client consumes. Development and integration tests only.
type Server struct {
	engine *gin.Engine
	server *http.Server
	store  *memoryStore
	tokens *tokenIssuer
	log    zerolog.Logger
	cfg    *config.AppConfig
}

func New(cfg *config.AppConfig, log zerolog.Logger) (*Server, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := newMemoryStore()
	if err := store.seed(); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true

	s := &Server{
		engine: engine,
		store:  store,
		tokens: newTokenIssuer(cfg.DevServer.JWTSecret, cfg.DevServer.JWTTTL),
		log:    log,
		cfg:    cfg,
	}

	engine.Use(
		s.requestID(),
		s.requestLogger(),
		s.recovery(),
	)
	s.routes(engine.Group("/api"))

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.DevServer.Host, cfg.DevServer.Port),
		Handler:      engine,
		ReadTimeout:  cfg.DevServer.ReadTimeout,
		WriteTimeout: cfg.DevServer.WriteTimeout,
		IdleTimeout:  cfg.DevServer.IdleTimeout,
	}

	return s, nil
}

// Handler exposes the engine for httptest-based integration tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.log.Info().
		Str("addr", s.server.Addr).
		Msg("dev server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("dev server shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes(router *gin.RouterGroup) {
	router.GET("/healthz", s.health)

	auth := router.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)

	sweets := router.Group("/sweets")
	sweets.GET("", s.listSweets)

	authed := sweets.Group("")
	authed.Use(s.requireAuth())
	authed.POST("/:id/purchase", s.purchaseSweet)

	admin := sweets.Group("")
	admin.Use(s.requireAuth(), s.requireRole(models.RoleAdmin))
	admin.POST("", s.createSweet)
	admin.PUT("/:id", s.updateSweet)
	admin.DELETE("/:id", s.deleteSweet)
	admin.POST("/:id/restock", s.restockSweet)
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDHeader, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := s.log.Info()
		if status >= 500 {
			event = s.log.Error()
		} else if status >= 400 {
			event = s.log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.Writer.Header().Get(requestIDHeader)).
			Msg("http request")
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().
					Interface("error", r).
					Str("request_id", c.Writer.Header().Get(requestIDHeader)).
					Msg("panic recovered")
				errorBody(c, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
			}
		}()
		c.Next()
	}
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}

		claims, err := s.tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

func (s *Server) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsVal, exists := c.Get("claims")
		if !exists {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		claims, ok := claimsVal.(*accessClaims)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}

		for _, r := range claims.Roles {
			if r == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "forbidden", "Access is denied")
	}
}

// errorBody mirrors the backend's error shape: timestamp, code, message.
func errorBody(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"code":      code,
		"message":   message,
	})
}

func abortWithError(c *gin.Context, status int, code string, message string) {
	errorBody(c, status, code, message)
	c.Abort()
}
