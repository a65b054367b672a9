package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"anoa.com/hennahub/internal/config"
	"anoa.com/hennahub/internal/logger"
	"anoa.com/hennahub/internal/middleware"
	"anoa.com/hennahub/pkg/database"
	"anoa.com/hennahub/pkg/ratelimiter"
	"anoa.com/hennahub/pkg/storage"
	"anoa.com/hennahub/pkg/token"

	adminHttp "anoa.com/hennahub/internal/modules/admin/delivery/http"
	adminRepo "anoa.com/hennahub/internal/modules/admin/repository"
	adminService "anoa.com/hennahub/internal/modules/admin/service"

	bookingHttp "anoa.com/hennahub/internal/modules/booking/delivery/http"
	bookingRepo "anoa.com/hennahub/internal/modules/booking/repository"
	bookingService "anoa.com/hennahub/internal/modules/booking/service"

	categoryHttp "anoa.com/hennahub/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/hennahub/internal/modules/category/repository"
	categoryService "anoa.com/hennahub/internal/modules/category/service"

	designHttp "anoa.com/hennahub/internal/modules/design/delivery/http"
	designRepo "anoa.com/hennahub/internal/modules/design/repository"
	designService "anoa.com/hennahub/internal/modules/design/service"

	notiHttp "anoa.com/hennahub/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/hennahub/internal/modules/notification/repository"
	notifService "anoa.com/hennahub/internal/modules/notification/service"

	reactionHttp "anoa.com/hennahub/internal/modules/reaction/delivery/http"
	reactionRepo "anoa.com/hennahub/internal/modules/reaction/repository"
	reactionService "anoa.com/hennahub/internal/modules/reaction/service"

	reviewHttp "anoa.com/hennahub/internal/modules/review/delivery/http"
	reviewRepo "anoa.com/hennahub/internal/modules/review/repository"
	reviewService "anoa.com/hennahub/internal/modules/review/service"

	searchService "anoa.com/hennahub/internal/modules/search/service"

	userHttp "anoa.com/hennahub/internal/modules/user/delivery/http"
	userRepo "anoa.com/hennahub/internal/modules/user/repository"
	userService "anoa.com/hennahub/internal/modules/user/service"

	viewService "anoa.com/hennahub/internal/modules/view/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	views       viewService.ViewCounter
}

// Dependencies are the external clients the server is built on. Redis and
// search are optional; a nil value turns the backed feature into a no-op.
type Dependencies struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Search       meilisearch.ServiceManager
	ImageStorage storage.ImageStorage
}

// NewMeiliClient returns nil when no host is configured.
func NewMeiliClient(cfg *config.Config) meilisearch.ServiceManager {
	meiliHost := strings.TrimSpace(cfg.MeiliSearchHost)
	if meiliHost == "" {
		return nil
	}
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	return meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	db := deps.DB
	txManager := database.NewTxManager(db)
	limiter := ratelimiter.New(deps.Redis)
	tokens := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	userRepository := userRepo.NewUserRepository(db)
	authSvc := userService.NewAuthService(userRepository, tokens)
	authHandler := userHttp.NewAuthHandler(authSvc)
	userSvc := userService.NewUserService(userRepository, deps.ImageStorage)
	userHandler := userHttp.NewUserHandler(userSvc)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	dispatcher := notifService.NewDispatcher(notificationRepository, deps.Redis)
	notificationSvc := notifService.NewNotificationService(notificationRepository)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc)

	categoryRepository := categoryRepo.NewCategoryRepository(db)
	categorySvc := categoryService.NewCategoryService(categoryRepository)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	designRepository := designRepo.NewDesignRepository(db)
	viewCounter := viewService.NewViewCounter(deps.Redis, designRepository)
	designSvc := designService.NewDesignService(designRepository, userRepository, deps.ImageStorage, viewCounter)
	designHandler := designHttp.NewDesignHandler(designSvc)

	reactionRepository := reactionRepo.NewReactionRepository(db)
	reactionSvc := reactionService.NewReactionService(reactionRepository, txManager)
	reactionHandler := reactionHttp.NewReactionHandler(reactionSvc)

	bookingRepository := bookingRepo.NewBookingRepository(db)
	bookingSvc := bookingService.NewBookingService(bookingRepository, txManager, dispatcher, limiter, cfg.RateLimitBooking)
	bookingHandler := bookingHttp.NewBookingHandler(bookingSvc)

	reviewRepository := reviewRepo.NewReviewRepository(db)
	reviewSvc := reviewService.NewReviewService(reviewRepository, userRepository, txManager, dispatcher, limiter, cfg.RateLimitReview)
	reviewHandler := reviewHttp.NewReviewHandler(reviewSvc)

	indexer := searchService.NewDesignIndexer(deps.Search)
	adminRepository := adminRepo.NewAdminRepository(db)
	moderationSvc := adminService.NewModerationService(adminRepository, reviewRepository, txManager, dispatcher, indexer)
	adminHandler := adminHttp.NewAdminHandler(moderationSvc)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.Origins())

	router.Use(gin.Recovery())
	router.Use(requestLogger())

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Browsing works anonymously; a valid token personalises the result.
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/designers", userHandler.ListDesigners)
		public.GET("/designers/:id", userHandler.GetDesigner)
		public.GET("/designers/:id/reviews", reviewHandler.ListReviews)
		public.GET("/categories", categoryHandler.GetAllCategories)
		public.GET("/designs", designHandler.ListDesigns)
		public.GET("/designs/trending", designHandler.Trending)
		public.GET("/designs/:id", designHandler.GetDesign)
		public.GET("/designs/:id/reactions", reactionHandler.GetReactions)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/dashboard", adminHandler.Dashboard)
			adminGroup.GET("/designers/pending", adminHandler.PendingDesigners)
			adminGroup.POST("/designers/:id/approve", adminHandler.ApproveDesigner)
			adminGroup.GET("/designs/pending", adminHandler.PendingDesigns)
			adminGroup.POST("/designs/:id/approve", adminHandler.ApproveDesign)
			adminGroup.POST("/designs/:id/reject", adminHandler.RejectDesign)
			adminGroup.GET("/reviews/reported", adminHandler.ReportedReviews)
			adminGroup.POST("/reviews/:id/handle", adminHandler.HandleReport)
			adminGroup.DELETE("/categories/:id", categoryHandler.DeleteCategory)
		}

		// Profile routes
		protected.GET("/profile", userHandler.GetProfile)
		protected.PUT("/profile", userHandler.UpdateProfile)

		// Review routes
		protected.POST("/designers/:id/reviews", reviewHandler.CreateReview)
		protected.POST("/reviews/:id/respond", reviewHandler.Respond)
		protected.POST("/reviews/:id/report", reviewHandler.Report)

		protected.POST("/categories", categoryHandler.CreateCategory)

		// Design routes
		protected.POST("/designs", designHandler.CreateDesign)
		protected.POST("/designs/:id/like", reactionHandler.SetReaction)
		protected.POST("/designs/:id/favorite", designHandler.ToggleFavorite)
		protected.GET("/favorites", designHandler.ListFavorites)

		// Booking routes
		protected.GET("/bookings", bookingHandler.ListBookings)
		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings/dashboard", bookingHandler.Dashboard)
		protected.GET("/bookings/:id", bookingHandler.GetBooking)
		protected.PATCH("/bookings/:id", bookingHandler.UpdateBooking)
		protected.POST("/bookings/:id/cancel", bookingHandler.CancelBooking)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: deps.Redis,
		views:       viewCounter,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// waits for the view sync worker to flush.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if s.redisClient != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.views.StartViewSyncWorker(ctx)
		}()
	}

	httpServer := &http.Server{Addr: addr, Handler: s.engine}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		logger.Info("shutting down http server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer shutdownCancel()
		runErr = httpServer.Shutdown(shutdownCtx)
	}

	// stop the worker when the listener failed on its own
	cancel()
	wg.Wait()
	return runErr
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
