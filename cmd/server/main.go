package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"projekthub/internal/api"
	"projekthub/internal/config"
	"projekthub/internal/model"
	"projekthub/internal/oauth"
	"projekthub/internal/storage"
	"projekthub/web"
)

func main() {
	// .env is a development convenience; production uses real env vars.
	if err := godotenv.Load(); err == nil {
		logrus.Debug("loaded environment from .env")
	}

	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	store, err := storage.NewAvatarStore(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise avatar storage")
		return
	}

	providers, err := oauth.NewRegistry(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to configure oauth providers")
		return
	}
	if names := providers.Names(); len(names) > 0 {
		logger.WithField("providers", names).Info("oauth sign-in enabled")
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store, providers)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", httpHandler.Register)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.POST("/logout", httpHandler.Logout)
	authGroup.GET("/oauth/:provider", httpHandler.OAuthStart)
	authGroup.GET("/oauth/:provider/callback", httpHandler.OAuthCallback)

	apiGroup.GET("/me", httpHandler.Me)
	apiGroup.POST("/me/avatar", httpHandler.UploadAvatar)

	// The admin endpoints carry no route middleware; every operation
	// re-checks the caller's role inside the account service.
	adminGroup := apiGroup.Group("/admin")
	adminGroup.GET("/users", httpHandler.AdminUsers)
	adminGroup.DELETE("/users/:id", httpHandler.AdminDeleteUser)
	adminGroup.GET("/projects", httpHandler.AdminProjects)
	adminGroup.DELETE("/projects/:id", httpHandler.AdminDeleteProject)
	adminGroup.POST("/create-admin", httpHandler.AdminCreateAdmin)
	adminGroup.GET("/logs", httpHandler.AdminLogs)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	// Browser pages
	pages := r.Group("")
	pages.Use(httpHandler.RouteGuard())
	pages.GET("/", web.Page("index"))
	pages.GET("/login", web.Page("login"))
	pages.GET("/register", web.Page("register"))
	pages.GET("/dashboard", web.Page("dashboard"))
	pages.GET("/admin", web.Page("admin"))

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("server starting")
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("server failed")
	}
}

// CORSMiddleware handles cross-origin requests for the JSON API.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware logs one structured line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
