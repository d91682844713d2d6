package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/agilizaos/consert-api/config"
	"github.com/agilizaos/consert-api/controllers"
	"github.com/agilizaos/consert-api/middleware"
	"github.com/agilizaos/consert-api/models"
	"github.com/agilizaos/consert-api/services"
)

func main() {
	log.Println("Starting Consert order-service API...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Commission{},
		&models.CommissionConfig{},
		&models.EquipmentType{},
		&models.StatusHistory{},
		&models.Comment{},
		&models.PendingNotification{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Report-photo storage; the upload controller falls back to local disk
	// when S3 is not configured
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitLaudoService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, storing report photos on local disk")
	}

	// Notification outbox dispatcher with its retry loop
	notifier := services.NewNotifier(db, services.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
	services.SetNotifier(notifier)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	go notifier.Start(dispatcherCtx, 30*time.Second)

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the HTTP surface. JWT validation is only mounted when
// an Auth0 domain is configured; development and tests run without it.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
	}

	api := router.Group("/api")
	if cfg.Auth0Domain != "" {
		api.Use(middleware.EnsureValidToken(cfg))
	}
	{
		api.POST("/ordens/update-status", controllers.UpdateOrderStatus)
		api.POST("/ordens", controllers.CreateOrder)
		api.GET("/ordens", controllers.ListOrders)
		api.GET("/ordens/:id", controllers.GetOrder)
		api.POST("/ordens/:id/comentarios", controllers.AddComment)
		api.GET("/ordens/:id/comentarios", controllers.ListComments)
		api.POST("/ordens/:id/laudo", controllers.UploadLaudo)
		api.GET("/comissoes", controllers.ListCommissions)
		api.GET("/equipamentos", controllers.ListEquipmentTypes)
		api.POST("/equipamentos/recount", controllers.RecountEquipmentTypes)
		api.POST("/usuarios", controllers.CreateUser)
		api.GET("/usuarios/me", controllers.GetCurrentUser)
		api.GET("/uploads/:filename", controllers.GetUploadedLaudo)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Consert API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
