package main

import (
	"fmt"
	"log"

	"docvault/config"
	"docvault/database"
	"docvault/handlers"
	"docvault/logger"
	"docvault/middleware"
	"docvault/models"
	"docvault/repositories"
	"docvault/services"
	"docvault/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("starting docvault service")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(cfg.Logging.Level)

	if err := database.InitMySQL(&cfg.Database); err != nil {
		log.Fatalf("init mysql failed: %v", err)
	}

	database.DB.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Folder{},
		&models.Document{},
		&models.DocumentVersion{},
		&models.PermissionEntry{},
		&models.AuditLogEntry{},
		&models.Notification{},
		&models.ThumbnailTask{},
	)
	log.Println("database migration completed")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("init redis failed: %v", err)
	}

	blobs, err := storage.NewMinioStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("init object storage failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(&repoContainer, blobs)
	handlers.SetServices(serviceContainer)

	serviceContainer.Start()
	defer serviceContainer.Stop()
	log.Println("background workers started")

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger())
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", handlers.GetProfile)

		protected.GET("/departments", handlers.ListDepartments)
		protected.GET("/departments/:id", handlers.GetDepartment)
		protected.POST("/departments", handlers.CreateDepartment)
		protected.PUT("/departments/:id", handlers.RenameDepartment)
		protected.POST("/departments/:id/deactivate", handlers.DeactivateDepartment)
		protected.POST("/departments/:id/reactivate", handlers.ReactivateDepartment)

		protected.GET("/folders", handlers.ListFolders)
		protected.GET("/folders/:id", handlers.GetFolder)
		protected.GET("/folders/:id/breadcrumb", handlers.GetBreadcrumb)
		protected.POST("/folders", handlers.CreateFolder)
		protected.PUT("/folders/:id", handlers.RenameFolder)
		protected.PUT("/folders/:id/move", handlers.MoveFolder)
		protected.DELETE("/folders/:id", handlers.DeleteFolder)

		protected.GET("/documents", handlers.ListDocuments)
		protected.GET("/documents/search", handlers.SearchDocuments)
		protected.POST("/documents/upload", handlers.UploadDocument)
		protected.GET("/documents/:id", handlers.GetDocument)
		protected.PUT("/documents/:id", handlers.UpdateDocument)
		protected.PUT("/documents/:id/move", handlers.MoveDocument)
		protected.DELETE("/documents/:id", handlers.DeleteDocument)
		protected.GET("/documents/:id/download", handlers.DownloadDocument)
		protected.GET("/documents/:id/thumbnail", handlers.GetThumbnail)

		protected.GET("/documents/:id/versions", handlers.ListVersions)
		protected.POST("/documents/:id/replace", handlers.ReplaceDocument)
		protected.POST("/documents/:id/versions/:version_id/restore", handlers.RestoreVersion)

		protected.GET("/permissions/resource/:id", handlers.ListPermissions)
		protected.POST("/permissions", handlers.GrantPermission)
		protected.DELETE("/permissions/:id", handlers.RevokePermission)

		protected.GET("/notifications", handlers.ListNotifications)
		protected.PUT("/notifications/:id/read", handlers.MarkNotificationRead)
		protected.PUT("/notifications/read-all", handlers.MarkAllNotificationsRead)
		protected.DELETE("/notifications/:id", handlers.DeleteNotification)

		protected.GET("/audit-log", handlers.ListAuditLog)
	}
}
