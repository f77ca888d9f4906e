package provider

import (
	"github.com/freshcart-shop/freshcart/internal/cache"
	"github.com/freshcart-shop/freshcart/internal/config"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/payment/stripe"
	"github.com/freshcart-shop/freshcart/internal/queue"
	"github.com/freshcart-shop/freshcart/internal/repository"
	"github.com/freshcart-shop/freshcart/internal/service"

	"gorm.io/gorm"
)

// Container wires repositories and services once at startup.
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	OrderRepo       repository.OrderRepository
	PaymentRepo     repository.PaymentRepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository
	CartRepo        repository.CartRepository
	AddressRepo     repository.AddressRepository
	ProductRepo     repository.ProductRepository

	// Services
	CouponService       *service.CouponService
	CouponAdminService  *service.CouponAdminService
	CartService         *service.CartService
	OrderService        *service.OrderService
	PaymentService      *service.PaymentService
	NotificationService *service.NotificationService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config, db *gorm.DB) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.OrderRepo = repository.NewOrderRepository(c.DB)
	c.PaymentRepo = repository.NewPaymentRepository(c.DB)
	c.CouponRepo = repository.NewCouponRepository(c.DB)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(c.DB)
	c.CartRepo = repository.NewCartRepository(c.DB)
	c.AddressRepo = repository.NewAddressRepository(c.DB)
	c.ProductRepo = repository.NewProductRepository(c.DB)
}

func (c *Container) initServices() {
	// A missing gateway key is not fatal at boot. Payment operations
	// report the gateway as unavailable until it is configured.
	var gateway service.PaymentGateway
	if c.Config.Stripe.SecretKey != "" {
		client, err := stripe.NewClient(stripe.Config{
			SecretKey:               c.Config.Stripe.SecretKey,
			WebhookSecret:           c.Config.Stripe.WebhookSecret,
			APIBaseURL:              c.Config.Stripe.APIBaseURL,
			TimeoutMS:               c.Config.Stripe.TimeoutMS,
			WebhookToleranceSeconds: c.Config.Stripe.ToleranceSeconds,
		})
		if err != nil {
			logger.Errorw("provider_init_gateway_failed", "error", err)
		} else {
			gateway = client
		}
	} else {
		logger.Warnw("provider_payment_gateway_not_configured")
	}

	pricing := service.NewPricingPolicy(c.Config.Pricing)

	c.NotificationService = service.NewNotificationService(c.QueueClient, c.OrderRepo)
	c.CouponService = service.NewCouponService(c.DB, c.CouponRepo, c.CouponUsageRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo, c.CouponUsageRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(
		c.DB,
		c.OrderRepo,
		c.CartRepo,
		c.AddressRepo,
		c.ProductRepo,
		c.CouponService,
		c.NotificationService,
		pricing,
	)
	c.PaymentService = service.NewPaymentService(
		c.DB,
		c.PaymentRepo,
		c.OrderRepo,
		gateway,
		c.NotificationService,
		pricing.Currency,
	)
}
