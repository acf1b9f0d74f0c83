package main

import (
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"backend/pkg/config"
	"backend/pkg/logger"
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           POS Back Office API
// @version         1.0
// @description     Inventory and purchasing back office for a point-of-sale desktop client.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	// The middleware falls back to a development secret when JWT_SECRET is
	// unset; the token issuer must sign with the same one.
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = string(middleware.GetJWTSecret())
	}

	db, err := database.NewConnection(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("database connection failed")
	}
	log.Info().Str("path", cfg.DB.Path).Msg("database ready")

	// WebSocket hub for entity change notifications
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repository -> Service -> Handler
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	productRepo := repository.NewProductRepository(db)

	authService := service.NewAuthService(userRepo, tokenRepo, txManager, cfg.JWT)
	userService := service.NewUserService(userRepo, tokenRepo, db)
	roleService := service.NewRoleService(db)
	taxService := service.NewTaxService(db)
	categoryService := service.NewCategoryService(db)
	brandService := service.NewBrandService(db)
	colorService := service.NewColorService(db)
	attributeService := service.NewAttributeService(db)
	clientService := service.NewClientService(db)
	supplierService := service.NewSupplierService(db)
	productService := service.NewProductService(productRepo, txManager, db, wsHub)
	orderService := service.NewPurchaseOrderService(txManager, db, wsHub)
	receptionService := service.NewReceptionService(txManager, db, wsHub)
	auditService := service.NewAuditService(db)
	dashboardService := service.NewDashboardService(db)

	// Seed system roles, the permission catalog and the initial admin
	if err := roleService.SeedDefaults(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, []byte(cfg.JWT.Secret))
	})

	api := router.Group("")
	handler.NewAuthHandler(authService, userService).RegisterRoutes(api)
	handler.NewUserHandler(userService).RegisterRoutes(api)
	handler.NewRoleHandler(roleService).RegisterRoutes(api)
	handler.NewTaxHandler(taxService).RegisterRoutes(api)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(api)
	handler.NewBrandHandler(brandService).RegisterRoutes(api)
	handler.NewColorHandler(colorService).RegisterRoutes(api)
	handler.NewAttributeHandler(attributeService).RegisterRoutes(api)
	handler.NewClientHandler(clientService).RegisterRoutes(api)
	handler.NewSupplierHandler(supplierService).RegisterRoutes(api)
	handler.NewProductHandler(productService).RegisterRoutes(api)
	handler.NewPurchaseOrderHandler(orderService).RegisterRoutes(api)
	handler.NewReceptionHandler(receptionService).RegisterRoutes(api)
	handler.NewAuditHandler(auditService).RegisterRoutes(api)
	handler.NewDashboardHandler(dashboardService).RegisterRoutes(api)

	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("server listening")
	if err := router.Run(cfg.HTTP.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
