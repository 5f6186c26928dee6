package main

import (
	"context"
	"os"
	"time"

	_ "projector/api/swagger" // swagger docs
	"projector/internal/auth"
	"projector/internal/config"
	"projector/internal/database"
	"projector/internal/handler"
	"projector/internal/logger"
	"projector/internal/middleware"
	"projector/internal/repository"
	"projector/internal/service"
	"projector/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Projector API
// @version         1.0
// @description     Project management API with role-based access control.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log := logger.New(cfg.Log)
	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.WithError(err).Fatal("invalid database configuration")
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log.WithField("component", "websocket"))
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	decisionLogRepo := repository.NewDecisionLogRepository(db)
	estimationRepo := repository.NewEstimationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Schema and system roles are set up once the database answers. Until then /health reports
	// the outage and permission checks stay fail-closed.
	bootstrapper := service.NewBootstrapper(roleRepo, userRepo, auditRepo, cfg.Admin, log.WithField("component", "bootstrap"))
	prepare := func() {
		if err := database.Migrate(db); err != nil {
			log.WithError(err).Warn("database migration failed")
		}
		bootCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := bootstrapper.Run(bootCtx); err != nil {
			log.WithError(err).Error("role bootstrap incomplete; permission checks stay fail-closed")
		}
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = database.Ping(pingCtx, db)
	cancel()
	if err != nil {
		log.WithError(err).Error("database unreachable; serving health checks while retrying")
		go func() {
			if err := database.WaitReady(context.Background(), db, 5*time.Second, log.WithField("component", "database")); err == nil {
				log.Info("connected to PostgreSQL")
				prepare()
			}
		}()
	} else {
		log.Info("connected to PostgreSQL")
		prepare()
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	userService := service.NewUserService(userRepo, roleRepo, tokens)
	roleService := service.NewRoleService(roleRepo, userRepo, auditRepo, txManager, wsHub)
	auditService := service.NewAuditService(auditRepo)
	decisionLogService := service.NewDecisionLogService(decisionLogRepo)
	estimationService := service.NewEstimationService(estimationRepo)
	messageService := service.NewMessageService(messageRepo, wsHub)
	recordServices := service.NewRecordServices(db, estimationRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService, handler.CookieSettings{TTL: cfg.JWTTTL, Release: cfg.IsRelease()})
	roleHandler := handler.NewRoleHandler(roleService)
	auditHandler := handler.NewAuditHandler(auditService)
	decisionLogHandler := handler.NewDecisionLogHandler(decisionLogService)
	estimationHandler := handler.NewEstimationHandler(estimationService)
	messageHandler := handler.NewMessageHandler(messageService)

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	handler.NewHealthHandler(db).RegisterRoutes(router.Group(""))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, tokens, userRepo)
	})

	// API Routing
	public := router.Group("")
	userHandler.RegisterPublicRoutes(public)

	protected := router.Group("", middleware.Authenticate(tokens, userRepo))
	userHandler.RegisterRoutes(protected)
	roleHandler.RegisterRoutes(protected)
	auditHandler.RegisterRoutes(protected)
	decisionLogHandler.RegisterRoutes(protected)
	estimationHandler.RegisterRoutes(protected)
	messageHandler.RegisterRoutes(protected)
	handler.RegisterRecordRoutes(protected, recordServices)

	log.WithField("port", cfg.Port).Info("server listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Error("server failed")
		os.Exit(1)
	}
}
