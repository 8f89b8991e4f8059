package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/WooodHead/blog-be-next/internal/config"
	"github.com/WooodHead/blog-be-next/internal/middleware"
	"github.com/WooodHead/blog-be-next/internal/models"
	"github.com/WooodHead/blog-be-next/internal/repository"
	"github.com/WooodHead/blog-be-next/internal/service"
	"github.com/WooodHead/blog-be-next/internal/storage"
)

type HandlerSet struct {
	log              zerolog.Logger
	cfg              *config.AppConfig
	db               *mongo.Database
	cache            *redis.Client
	authService      *service.AuthService
	smsService       *service.SMSService
	bandwagonService *service.BandwagonService
	uploadService    *service.UploadService
	users            *repository.UserRepository
	players          *repository.PlayerRepository
	albums           *repository.AlbumRepository
	snapshots        *repository.SnapshotRepository
}

func NewHandlerSet(log zerolog.Logger, db *mongo.Database, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	return HandlerSet{
		log:              log,
		cfg:              cfg,
		db:               db,
		cache:            cache,
		authService:      service.NewAuthService(userRepo, cfg, log),
		smsService:       service.NewSMSService(cache, cfg.SMS, log),
		bandwagonService: service.NewBandwagonService(cfg.Bandwagon, log),
		uploadService:    service.NewUploadService(store, cfg, log),
		users:            userRepo,
		players:          playerRepo,
		albums:           albumRepo,
		snapshots:        snapshotRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.POST("/totp/validate", h.ValidateTOTP)
	auth.POST("/recovery-codes/validate", h.ValidateRecoveryCode)

	authed := v1.Group("/auth")
	authed.Use(middleware.Auth(h.cfg, h.users))
	authed.GET("/me", h.Me)
	authed.POST("/totp", h.CreateTOTP)
	authed.POST("/recovery-codes", h.CreateRecoveryCodes)

	players := v1.Group("/players")
	players.GET("", h.ListPlayers)
	players.GET("/:id", h.GetPlayer)

	playersAdmin := v1.Group("/players")
	playersAdmin.Use(
		middleware.Auth(h.cfg, h.users),
		middleware.RequireRoles(models.UserRoleSuperuser),
	)
	playersAdmin.POST("", h.CreatePlayer)
	playersAdmin.PUT("/:id", h.UpdatePlayer)
	playersAdmin.DELETE("/:id", h.DeletePlayer)
	playersAdmin.POST("/batch-delete", h.BatchDeletePlayers)
	playersAdmin.POST("/batch-offline", h.BatchOfflinePlayers)

	albums := v1.Group("/albums")
	albums.GET("", h.ListAlbums)
	albums.GET("/:id", h.GetAlbum)

	albumsAdmin := v1.Group("/albums")
	albumsAdmin.Use(
		middleware.Auth(h.cfg, h.users),
		middleware.RequireRoles(models.UserRoleSuperuser),
	)
	albumsAdmin.POST("", h.CreateAlbum)
	albumsAdmin.PUT("/:id", h.UpdateAlbum)
	albumsAdmin.DELETE("/:id", h.DeleteAlbum)
	albumsAdmin.POST("/batch-delete", h.BatchDeleteAlbums)

	sms := v1.Group("/sms")
	sms.POST("/send", h.SendSMS)
	sms.POST("/validate", h.ValidateSMS)

	uploads := v1.Group("/uploads")
	uploads.Use(middleware.Auth(h.cfg, h.users))
	uploads.POST("", h.UploadFile)

	bandwagon := v1.Group("/bandwagon")
	bandwagon.Use(
		middleware.Auth(h.cfg, h.users),
		middleware.RequireRoles(models.UserRoleSuperuser),
	)
	bandwagon.GET("/service-info", h.BandwagonServiceInfo)
	bandwagon.GET("/usage-stats", h.BandwagonUsageStats)
	bandwagon.GET("/usage-snapshots", h.UsageSnapshots)
}
