package provider

import (
	"github.com/ava-bijoux/ava-next/internal/authz"
	"github.com/ava-bijoux/ava-next/internal/cache"
	"github.com/ava-bijoux/ava-next/internal/config"
	"github.com/ava-bijoux/ava-next/internal/logger"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/queue"
	"github.com/ava-bijoux/ava-next/internal/repository"
	"github.com/ava-bijoux/ava-next/internal/service"
)

// Container wires repositories and services together
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	SalonRepo      repository.SalonRepository
	ProductRepo    repository.ProductRepository
	OrderRepo      repository.OrderRepository
	CommissionRepo repository.CommissionRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	EmailService      *service.EmailService
	CaptchaService    *service.CaptchaService
	ProductService    *service.ProductService
	SalonService      *service.SalonService
	OrderService      *service.OrderService
	PaymentService    *service.PaymentService
	CommissionService *service.CommissionService
	DashboardService  *service.DashboardService
}

// NewContainer builds the container from configuration
func NewContainer(cfg *config.Config) *Container {
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
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.SalonRepo = repository.NewSalonRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CommissionRepo = repository.NewCommissionRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.AdminRepo, c.SalonRepo, c.Config.JWT, c.Config.SalonJWT)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.SalonService = service.NewSalonService(c.SalonRepo, c.Config.Commission.Rate)
	c.PaymentService = service.NewPaymentService(c.Config.Stripe, c.OrderRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.SalonRepo,
		c.CommissionRepo,
		c.PaymentService,
		c.QueueClient,
		c.Config.Commission.Rate,
		c.Config.Stripe.Currency,
	)
	c.CommissionService = service.NewCommissionService(c.CommissionRepo, c.SalonRepo, c.QueueClient)
	c.DashboardService = service.NewDashboardService(c.OrderRepo, c.CommissionRepo, c.SalonRepo)
}
