package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pazarmk/pazar-backend/internal/handler"
	appmw "github.com/pazarmk/pazar-backend/internal/middleware"
	"github.com/pazarmk/pazar-backend/internal/realtime"
	"github.com/pazarmk/pazar-backend/internal/repository"
	"github.com/pazarmk/pazar-backend/internal/service"
	"github.com/pazarmk/pazar-backend/internal/storage"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	repos []interface{ SetDB(*gorm.DB) }
	sha   string
	build string
}

// New wires repositories, services and handlers. db may be nil at startup;
// SetDB attaches it once the connection is ready.
func New(db *gorm.DB, storageBucket, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			host := u.Hostname()
			if strings.HasSuffix(host, "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	userRepo := repository.NewUserRepository(db)
	catRepo := repository.NewCategoryRepository(db)
	listingRepo := repository.NewListingRepository(db)
	convRepo := repository.NewConversationRepository(db)
	notifyRepo := repository.NewNotificationRepository(db)

	hub := realtime.NewHub()

	userSvc := service.NewUserService(userRepo)
	catSvc := service.NewCategoryService(catRepo)
	listingSvc := service.NewListingService(listingRepo, catRepo, userRepo)
	notifySvc := service.NewNotificationService(notifyRepo)
	convSvc := service.NewConversationService(convRepo, listingRepo, userRepo, hub, notifySvc)

	userHandler := handler.NewUserHandler(userSvc)
	catHandler := handler.NewCategoryHandler(catSvc)
	listingHandler := handler.NewListingHandler(listingSvc)
	convHandler := handler.NewConversationHandler(convSvc)
	notifyHandler := handler.NewNotificationHandler(notifySvc)
	wsHandler := handler.NewWSHandler(hub, convSvc)

	var uploader *storage.Uploader
	if storageBucket != "" {
		u, err := storage.NewUploader(context.Background(), storageBucket)
		if err != nil {
			log.Printf("storage uploader init error: %v", err)
		} else {
			uploader = u
		}
	}
	uploadHandler := handler.NewUploadHandler(uploader)

	authMw, err := appmw.NewAuthMiddleware(context.Background())
	if err != nil {
		e.Logger.Fatalf("firebase auth init error: %v", err)
	}
	requireAuth := authMw.RequireAuth

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	api.GET("/me", userHandler.Me, requireAuth)
	api.GET("/users/:uid/public", userHandler.GetPublic)
	api.GET("/categories", catHandler.List)
	api.GET("/categories/:id/children", catHandler.ListChildren)
	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", listingHandler.Get)
	api.POST("/listings", listingHandler.Create, requireAuth)
	api.PUT("/listings/:id", listingHandler.Update, requireAuth)
	api.POST("/listings/:id/sold", listingHandler.MarkSold, requireAuth)
	api.DELETE("/listings/:id", listingHandler.Delete, requireAuth)
	api.GET("/me/listings", listingHandler.ListMine, requireAuth)
	api.GET("/me/listings/:id", listingHandler.GetMine, requireAuth)
	api.POST("/listings/:id/conversations", convHandler.CreateFromListing, requireAuth)
	api.GET("/conversations", convHandler.List, requireAuth)
	api.GET("/conversations/:id", convHandler.Get, requireAuth)
	api.GET("/conversations/:id/messages", convHandler.ListMessages, requireAuth)
	api.POST("/conversations/:id/messages", convHandler.CreateMessage, requireAuth)
	api.POST("/conversations/:id/read", convHandler.MarkRead, requireAuth)
	api.GET("/me/unread", convHandler.UnreadCount, requireAuth)
	api.GET("/notifications", notifyHandler.List, requireAuth)
	api.POST("/notifications/read", notifyHandler.MarkAllRead, requireAuth)
	api.POST("/uploads", uploadHandler.Upload, requireAuth)
	api.GET("/ws", wsHandler.Subscribe, requireAuth)

	return &Server{
		e: e,
		repos: []interface{ SetDB(*gorm.DB) }{
			userRepo, catRepo, listingRepo, convRepo, notifyRepo,
		},
		sha:   sha,
		build: buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) SetDB(db *gorm.DB) {
	for _, r := range s.repos {
		r.SetDB(db)
	}
}
