package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/notify"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.SessionMiddleware(
		cfg.Session.CookieName,
		cfg.Session.TTLHours*3600,
	))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize the session cart store
	cartStore := session.NewRedisCartStore(
		redisClient,
		time.Duration(cfg.Session.TTLHours)*time.Hour,
	)

	// Initialize the notification sender
	var notifier notify.Notifier
	if cfg.SMTP.Enabled {
		notifier = notify.NewSMTPNotifier(cfg.SMTP.Host, cfg.SMTP.Port)
	} else {
		notifier = notify.NewNopNotifier()
	}

	// Initialize services
	cartService := service.NewCartService(productRepo, cartStore)
	checkoutService := service.NewCheckoutService(
		productRepo, orderRepo, cartStore, notifier, cfg.SMTP.From, logger,
	)
	adminService := service.NewAdminService(cfg.Admin)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productRepo, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	checkoutHandler := transport.NewCheckoutHandler(checkoutService, logger)
	orderHandler := transport.NewOrderHandler(orderRepo, logger)
	adminHandler := transport.NewAdminHandler(adminService, logger)

	// Admin chain: JWT validation then role check
	authMiddleware := custommiddleware.AuthMiddleware(cfg.Admin.JWTSecret, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	adminOnly := func(next http.Handler) http.Handler {
		return authMiddleware(requireAdmin(next))
	}

	// Rate limit checkout and cart mutations
	rateLimited := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 60,
		Window:            time.Minute,
		KeyPrefix:         "rate_limit",
	}, logger)

	// Register routes
	adminHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router, adminOnly)
	orderHandler.RegisterRoutes(router, adminOnly)
	router.Group(func(r chi.Router) {
		r.Use(rateLimited)
		cartHandler.RegisterRoutes(r)
		checkoutHandler.RegisterRoutes(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	// Close redis connection
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
