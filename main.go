package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/antqd/davveroo/config"
	"github.com/antqd/davveroo/database"
	"github.com/antqd/davveroo/handlers"
	"github.com/antqd/davveroo/ledger"
	"github.com/antqd/davveroo/logging"
	"github.com/antqd/davveroo/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system environment")
	}
	cfg := config.Load()

	if err := logging.InitLogger(cfg.Env == "release"); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logging.Logger.Sync()

	if err := database.InitDB(cfg); err != nil {
		logging.Logger.Fatal("database init failed", zap.Error(err))
	}
	defer database.CloseDB()

	if cfg.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handlers.New(cfg, ledger.New(database.Pool))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.SetTrustedProxies(cfg.TrustedProxies)
	r.Use(middleware.SetupCORS(cfg))

	registerRoutes(r, cfg, h)

	logging.Logger.Info("API listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logging.Logger.Fatal("server stopped", zap.Error(err))
	}
}

func registerRoutes(r *gin.Engine, cfg *config.Config, h *handlers.Handlers) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.GET("/health/ping", h.Ping)
	api.GET("/health/db", h.HealthDB)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	authGroup := api.Group("/auth", loginLimiter.Middleware())
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)

	// Support lists, left open like the original backend.
	api.GET("/agents", h.ListAgents)
	api.GET("/products", h.ListProducts)
	api.GET("/customers", h.SearchCustomers)

	// Top sellers: public read, admin-gated replace.
	api.GET("/top-sellers", h.TopSellers)
	api.POST("/top-sellers", middleware.AdminOrStaticToken(cfg), h.SaveTopSellers)

	authed := api.Group("", middleware.AuthMiddleware(cfg))
	authed.GET("/me", h.Me)
	authed.POST("/referrals", h.CreateReferral)
	authed.GET("/customers/:id/credit", h.CustomerCredit)
	authed.GET("/customers/:id/referrals", h.CustomerReferrals)
	authed.POST("/customers/:id/redemptions", h.RedeemCredit)

	staff := authed.Group("", middleware.RequireRoles("seller", "admin"))
	staff.POST("/customers", h.CreateCustomer)
	staff.POST("/purchases", h.RecordPurchase)
	staff.GET("/dashboard", h.Dashboard)
}
