package router

import (
	"fmt"
	"strings"

	"github.com/freshcart-shop/freshcart/internal/cache"
	"github.com/freshcart-shop/freshcart/internal/config"
	adminhandlers "github.com/freshcart-shop/freshcart/internal/http/handlers/admin"
	publichandlers "github.com/freshcart-shop/freshcart/internal/http/handlers/public"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and the API route groups.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fc"
	}
	redisClient := cache.Client()
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// Gateway callback, authenticated by signature instead of JWT.
		apiV1.POST("/payment/webhook", publicHandler.HandleWebhook)

		// Shopper endpoints.
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey))
		{
			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.UpsertCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.DeleteCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)

			user.POST("/coupons/validate", publicHandler.ValidateCoupon)

			user.POST("/orders", RateLimitMiddleware(redisClient, checkoutRule, KeyByUserID), publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.DELETE("/orders/:id", publicHandler.CancelOrder)

			user.POST("/payment/create-payment-intent", RateLimitMiddleware(redisClient, checkoutRule, KeyByUserID), publicHandler.CreatePaymentIntent)
			user.GET("/payment/:id", publicHandler.GetPayment)
		}

		// Back-office endpoints.
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.AdminJWT.SecretKey))
		{
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.GET("/coupons/:id", adminHandler.GetCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)
			admin.GET("/coupons/:id/stats", adminHandler.GetCouponStats)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.POST("/payment/:id/refund", adminHandler.RefundPayment)
		}
	}

	return r
}
