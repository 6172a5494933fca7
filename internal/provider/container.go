package provider

import (
	"time"

	"github.com/tadka-store/internal/authz"
	"github.com/tadka-store/internal/cache"
	"github.com/tadka-store/internal/config"
	"github.com/tadka-store/internal/constants"
	"github.com/tadka-store/internal/invoice"
	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/queue"
	"github.com/tadka-store/internal/repository"
	"github.com/tadka-store/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo    repository.AdminRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	MenuItemRepo repository.MenuItemRepository
	CartRepo     repository.CartRepository
	OrderRepo    repository.OrderRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	UserAuthService *service.UserAuthService
	CaptchaService  *service.CaptchaService
	CatalogService  *service.CatalogService
	CartResolver    *service.CartResolver
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	InvoiceService  *service.InvoiceService
	OrderService    *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	if cfg.Cache.MenuTTLSeconds > 0 {
		cache.SetCatalogTTL(time.Duration(cfg.Cache.MenuTTLSeconds) * time.Second)
	}

	// 初始化队列客户端
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

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.MenuItemRepo = repository.NewMenuItemRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
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

	invoiceDir := c.Config.Invoice.Dir
	if invoiceDir == "" {
		invoiceDir = constants.InvoiceDirDefault
	}
	storage, err := invoice.NewLocalStorage(invoiceDir)
	if err != nil {
		logger.Errorw("provider_init_invoice_storage_failed", "dir", invoiceDir, "error", err)
		panic(err)
	}
	seller := invoice.Seller{
		Name:    c.Config.Invoice.CompanyName,
		GSTIN:   c.Config.Invoice.GSTIN,
		Address: c.Config.Invoice.Address,
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CatalogService = service.NewCatalogService(c.CategoryRepo, c.MenuItemRepo)
	c.CartResolver = service.NewCartResolver(c.CartRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.MenuItemRepo)
	c.InvoiceService = service.NewInvoiceService(c.OrderRepo, invoice.NewPDFRenderer(), storage, seller)
	c.OrderService = service.NewOrderService(c.OrderRepo)
	c.CheckoutService = service.NewCheckoutService(service.CheckoutDeps{
		Resolver:       c.CartResolver,
		CartRepo:       c.CartRepo,
		MenuItemRepo:   c.MenuItemRepo,
		OrderRepo:      c.OrderRepo,
		CartService:    c.CartService,
		CaptchaService: c.CaptchaService,
		QueueClient:    c.QueueClient,
		InvoiceService: c.InvoiceService,
	})
}
