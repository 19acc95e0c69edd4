package router

import (
	"fmt"
	"strings"

	"github.com/ava-bijoux/ava-next/internal/cache"
	"github.com/ava-bijoux/ava-next/internal/config"
	adminhandlers "github.com/ava-bijoux/ava-next/internal/http/handlers/admin"
	publichandlers "github.com/ava-bijoux/ava-next/internal/http/handlers/public"
	salonhandlers "github.com/ava-bijoux/ava-next/internal/http/handlers/salon"
	"github.com/ava-bijoux/ava-next/internal/logger"
	"github.com/ava-bijoux/ava-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and all route groups
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	salonHandler := salonhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ava"
	}
	redisClient := cache.Client()
	salonLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:salon_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// Storefront
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
			public.GET("/salons/:slug", publicHandler.GetSalon)
			public.POST("/orders", publicHandler.CreateOrder)
			public.GET("/orders/:id", publicHandler.GetOrder)
			public.POST("/payments/intent", publicHandler.CreatePaymentIntent)
		}

		// Payment provider callbacks, raw body required
		apiV1.POST("/payments/webhook/stripe", publicHandler.StripeWebhook)

		// Partner portal
		salonAuth := apiV1.Group("/salon/auth")
		{
			salonAuth.POST("/login", RateLimitMiddleware(redisClient, salonLoginRule, KeyByIPAndJSONField("email")), salonHandler.Login)
		}
		salon := apiV1.Group("/salon")
		salon.Use(SalonJWTAuthMiddleware(c.AuthService))
		{
			salon.GET("/me", salonHandler.GetProfile)
			salon.PUT("/me", salonHandler.UpdateProfile)
			salon.GET("/orders", salonHandler.ListOrders)
			salon.GET("/orders/:id", salonHandler.GetOrder)
			salon.GET("/commissions", salonHandler.ListCommissions)
			salon.GET("/commissions/me", salonHandler.GetSummary)
			salon.POST("/commissions/request-payout", salonHandler.RequestPayout)
			salon.GET("/payouts", salonHandler.ListPayouts)
			salon.GET("/payouts/:id", salonHandler.GetPayout)
		}

		// Back office
		adminAuth := apiV1.Group("/admin/auth")
		{
			adminAuth.GET("/captcha", adminHandler.Captcha)
			adminAuth.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.Login)
		}
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(c.AuthService))
		admin.Use(AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/me", adminHandler.Me)
			admin.GET("/dashboard", adminHandler.Dashboard)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

			admin.GET("/products", adminHandler.ListProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			admin.GET("/salons", adminHandler.ListSalons)
			admin.POST("/salons", adminHandler.CreateSalon)
			admin.GET("/salons/:id", adminHandler.GetSalon)
			admin.PUT("/salons/:id", adminHandler.UpdateSalon)
			admin.PATCH("/salons/:id/status", adminHandler.UpdateSalonStatus)

			admin.GET("/commissions", adminHandler.ListCommissions)
			admin.GET("/commissions/by-salon", adminHandler.ListCommissionsBySalon)
			admin.GET("/payouts", adminHandler.ListPayouts)
			admin.GET("/payouts/:id", adminHandler.GetPayout)
			admin.POST("/commissions/process-payout/:id", adminHandler.ProcessPayout)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
