package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/senecapartners/seneca-cms-backend/config"
	"github.com/senecapartners/seneca-cms-backend/internal/admin"
	"github.com/senecapartners/seneca-cms-backend/internal/application"
	"github.com/senecapartners/seneca-cms-backend/internal/auditlog"
	"github.com/senecapartners/seneca-cms-backend/internal/auth"
	"github.com/senecapartners/seneca-cms-backend/internal/filestore"
	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
	"github.com/senecapartners/seneca-cms-backend/internal/media"
	"github.com/senecapartners/seneca-cms-backend/internal/notification"
	"github.com/senecapartners/seneca-cms-backend/internal/proposal"
	"github.com/senecapartners/seneca-cms-backend/internal/reports"
	"github.com/senecapartners/seneca-cms-backend/internal/site"
	"github.com/senecapartners/seneca-cms-backend/middleware"

	_ "github.com/senecapartners/seneca-cms-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client // nil: in-memory rate limiting
	Files    filestore.Store
	Sites    *site.Service
	Notifier *notification.Service
}

// CORS allows the front-end origins from config.
func CORS(cfg *config.Config) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Site-ID", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func Setup(r *gin.Engine, cfg *config.Config, deps Deps) {
	db := deps.DB

	// Init repositories & services
	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	authSvc := auth.NewService(auth.NewRepository(db), cfg.JWTAccessSecret, time.Duration(cfg.JWTAccessTTLHours)*time.Hour)

	inventorySvc := inventory.NewService(inventory.NewRepository(db), deps.Files)
	mediaSvc := media.NewService(media.NewRepository(db), deps.Files)
	applicationSvc := application.NewService(application.NewRepository(db), deps.Notifier)

	generator := proposal.NewGenerator(cfg.LogoPath, cfg.CurrencySuffix)
	proposalSvc := proposal.NewService(proposal.NewRepository(db), inventorySvc, applicationSvc, generator, deps.Files, cfg.CurrencySuffix)

	checker := reports.NewLinkChecker(time.Duration(cfg.LinkCheckTimeoutSeconds) * time.Second)
	reportsSvc := reports.NewService(reports.NewRepository(db), checker)

	// Handlers
	authHandler := auth.NewHandler(authSvc)
	auditHandler := auditlog.NewHandler(auditSvc)
	inventoryHandler := inventory.NewHandler(inventorySvc, auditSvc)
	mediaHandler := media.NewHandler(mediaSvc, deps.Files, auditSvc)
	applicationHandler := application.NewHandler(applicationSvc, auditSvc)
	proposalHandler := proposal.NewHandler(proposalSvc, auditSvc)
	reportsHandler := reports.NewHandler(reportsSvc)
	notificationHandler := notification.NewHandler(deps.Notifier)
	adminHandler := admin.NewHandler(admin.Default())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/media/*key", mediaHandler.ServeFile)

	r.Use(middleware.ClientIP())
	r.Use(middleware.SiteScope(deps.Sites))

	// ========== Public API ==========
	api := r.Group("/api")
	api.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, deps.Redis))
	{
		api.GET("/photos", mediaHandler.ListPhotos)
		api.GET("/photos/:id", mediaHandler.GetPhoto)
		api.GET("/videos", mediaHandler.ListVideos)
		api.GET("/videos/:id", mediaHandler.GetVideo)

		api.GET("/blocks", inventoryHandler.ListBlocks)
		api.GET("/blocks/:id", inventoryHandler.GetBlock)
		api.GET("/floors", inventoryHandler.ListFloors)
		api.GET("/floors/:id", inventoryHandler.GetFloor)
		api.GET("/plans", inventoryHandler.ListPlans)
		api.GET("/plans/:id", inventoryHandler.GetPlan)

		api.POST("/applications", applicationHandler.Create)
	}

	// ========== Staff auth ==========
	r.GET("/admin/login", authHandler.LoginPage)
	r.POST("/admin/auth/login", middleware.RateLimiter(cfg.RateLimitPerMinute, deps.Redis), authHandler.Login)
	r.POST("/admin/auth/logout", authHandler.Logout)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.StaffAuth(authSvc))
	{
		adminGroup.GET("/", adminHandler.Index)
		adminGroup.GET("/auth/me", authHandler.Me)

		adminGroup.POST("/applications/export", applicationHandler.Export)
		adminGroup.POST("/proposals/:id/generate", proposalHandler.Generate)
		adminGroup.GET("/proposals/:id/pdf", proposalHandler.Download)

		reportRoutes := adminGroup.Group("/reports")
		{
			reportRoutes.GET("/data-integrity", reportsHandler.DataIntegrity)
			reportRoutes.GET("/dead-links", reportsHandler.DeadLinks)
			reportRoutes.GET("/applications-summary", reportsHandler.ApplicationsSummary)
		}
	}

	adminAPI := adminGroup.Group("/api")
	{
		adminAPI.GET("/registry", adminHandler.GetRegistry)

		adminAPI.POST("/photos", mediaHandler.UploadPhoto)
		adminAPI.PUT("/photos/:id", mediaHandler.UpdatePhoto)
		adminAPI.DELETE("/photos/:id", mediaHandler.DeletePhoto)
		adminAPI.POST("/videos", mediaHandler.CreateVideo)
		adminAPI.PUT("/videos/:id", mediaHandler.UpdateVideo)
		adminAPI.DELETE("/videos/:id", mediaHandler.DeleteVideo)

		adminAPI.POST("/blocks", inventoryHandler.CreateBlock)
		adminAPI.PUT("/blocks/:id", inventoryHandler.UpdateBlock)
		adminAPI.DELETE("/blocks/:id", inventoryHandler.DeleteBlock)
		adminAPI.POST("/floors", inventoryHandler.CreateFloor)
		adminAPI.PUT("/floors/:id", inventoryHandler.UpdateFloor)
		adminAPI.DELETE("/floors/:id", inventoryHandler.DeleteFloor)
		adminAPI.POST("/plans", inventoryHandler.CreatePlan)
		adminAPI.PUT("/plans/:id", inventoryHandler.UpdatePlan)
		adminAPI.PUT("/plans/:id/drawing", inventoryHandler.UploadDrawing)
		adminAPI.DELETE("/plans/:id", inventoryHandler.DeletePlan)

		adminAPI.GET("/applications", applicationHandler.List)
		adminAPI.GET("/applications/:id", applicationHandler.Get)
		adminAPI.PATCH("/applications/:id", applicationHandler.Update)
		adminAPI.DELETE("/applications/:id", applicationHandler.Delete)

		adminAPI.GET("/proposal-templates", proposalHandler.ListTemplates)
		adminAPI.GET("/proposal-templates/:id", proposalHandler.GetTemplate)
		adminAPI.POST("/proposal-templates", proposalHandler.CreateTemplate)
		adminAPI.DELETE("/proposal-templates/:id", proposalHandler.DeleteTemplate)

		adminAPI.GET("/proposals", proposalHandler.List)
		adminAPI.GET("/proposals/:id", proposalHandler.Get)
		adminAPI.POST("/proposals", proposalHandler.Create)
		adminAPI.PUT("/proposals/:id", proposalHandler.Update)
		adminAPI.DELETE("/proposals/:id", proposalHandler.Delete)
		adminAPI.GET("/proposals/:id/preview", proposalHandler.Preview)

		adminAPI.GET("/auditlogs", auditHandler.GetAuditLogs)
		adminAPI.GET("/auditlogs/:id", auditHandler.GetAuditLogByID)
		adminAPI.GET("/notifications", notificationHandler.ListLogs)
	}
}
