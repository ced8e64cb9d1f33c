package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bizlink/leadgen-backend/api/controllers"
	"github.com/bizlink/leadgen-backend/api/middleware"
	"github.com/bizlink/leadgen-backend/internal/auth"
	"github.com/bizlink/leadgen-backend/internal/businesses"
	"github.com/bizlink/leadgen-backend/internal/leads"
	"github.com/bizlink/leadgen-backend/internal/products"
	"github.com/bizlink/leadgen-backend/pkg/config"
	"github.com/bizlink/leadgen-backend/pkg/enums"
	"github.com/bizlink/leadgen-backend/pkg/logger"
	"github.com/bizlink/leadgen-backend/pkg/metrics"
	"github.com/bizlink/leadgen-backend/pkg/redis"
)

// RouterParams collects everything the HTTP surface depends on. Nil optional
// dependencies (redis, metrics registry) degrade gracefully.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    controllers.Pinger
	RedisClient *redis.Client

	AuthService     auth.Service
	RegisterService auth.RegisterService
	SeedService     auth.SeedService
	BusinessService businesses.Service
	ProductService  products.Service
	LeadService     leads.Service

	MetricsRegistry *prometheus.Registry
}

// NewRouter wires the full route tree.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if p.MetricsRegistry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(p.MetricsRegistry)))
	}
	r.Use(middleware.CORS(cfg.CORS))

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit)

	// A typed nil *redis.Client must not reach the interface-valued
	// parameters below.
	var cachePinger controllers.Pinger
	var rateStore middleware.RateLimiterStore
	if p.RedisClient != nil {
		cachePinger = p.RedisClient
		rateStore = p.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, cachePinger))
	})

	if p.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).
			Post("/register", controllers.AuthRegister(p.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).
			Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).
			Put("/profile", controllers.AuthProfile(p.AuthService, logg))
	})

	r.Post("/api/admin/seed", controllers.AdminSeed(p.SeedService, logg))

	r.Route("/api/businesses", func(r chi.Router) {
		r.Get("/", controllers.BusinessList(p.BusinessService, logg))
		r.Get("/{businessId}", controllers.BusinessGet(p.BusinessService, logg))
		r.Get("/{businessId}/products", controllers.BusinessProducts(p.ProductService, logg))
	})

	r.Route("/api/leads", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Post("/", controllers.LeadCreate(p.LeadService, logg))
		r.Get("/", controllers.LeadList(p.LeadService, logg))
		r.Delete("/{leadId}", controllers.LeadDelete(p.LeadService, logg))
	})

	r.Route("/api/business/products", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.UserRoleBusiness, enums.UserRoleAdmin))
		r.Post("/", controllers.ProductCreate(p.ProductService, logg))
		r.Get("/", controllers.ProductListOwn(p.ProductService, logg))
		r.Post("/upload", controllers.ProductUpload(p.ProductService, cfg.Uploads, logg))
		r.Get("/{productId}", controllers.ProductGet(p.ProductService, logg))
		r.Put("/{productId}", controllers.ProductUpdate(p.ProductService, logg))
		r.Delete("/{productId}", controllers.ProductDelete(p.ProductService, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
		r.Get("/businesses", controllers.AdminBusinessList(p.BusinessService, logg))
		r.Get("/businesses/{businessId}", controllers.BusinessGet(p.BusinessService, logg))
		r.Put("/businesses/{businessId}", controllers.AdminBusinessUpdate(p.BusinessService, logg))
		r.Delete("/businesses/{businessId}", controllers.AdminBusinessDelete(p.BusinessService, logg))
		r.Get("/users-without-business", controllers.AdminUsersWithoutBusiness(p.BusinessService, logg))
		r.Delete("/leads/{leadId}", controllers.LeadDelete(p.LeadService, logg))
	})

	return r
}
