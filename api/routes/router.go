package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusmart/campusmart-backend/api/controllers"
	webhookcontrollers "github.com/campusmart/campusmart-backend/api/controllers/webhooks"
	"github.com/campusmart/campusmart-backend/api/middleware"
	adminsvc "github.com/campusmart/campusmart-backend/internal/admin"
	ordersvc "github.com/campusmart/campusmart-backend/internal/orders"
	paymentsvc "github.com/campusmart/campusmart-backend/internal/payments"
	productsvc "github.com/campusmart/campusmart-backend/internal/products"
	reportsvc "github.com/campusmart/campusmart-backend/internal/reports"
	uploadsvc "github.com/campusmart/campusmart-backend/internal/uploads"
	usersvc "github.com/campusmart/campusmart-backend/internal/users"
	wishlistsvc "github.com/campusmart/campusmart-backend/internal/wishlist"
	"github.com/campusmart/campusmart-backend/pkg/config"
	"github.com/campusmart/campusmart-backend/pkg/db"
	"github.com/campusmart/campusmart-backend/pkg/identity"
	"github.com/campusmart/campusmart-backend/pkg/logger"
	"github.com/campusmart/campusmart-backend/pkg/metrics"
	"github.com/campusmart/campusmart-backend/pkg/razorpay"
	"github.com/campusmart/campusmart-backend/pkg/redis"
	"github.com/campusmart/campusmart-backend/pkg/storage/r2"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	DB      db.Pinger
	Redis   *redis.Client
	Storage r2.Pinger

	Verifier identity.Verifier
	Gateway  *razorpay.Client
	Guard    *paymentsvc.IdempotencyGuard

	Users    usersvc.Service
	Products productsvc.Service
	Orders   ordersvc.Service
	Payments paymentsvc.Service
	Wishlist wishlistsvc.Service
	Reports  reportsvc.Service
	Uploads  uploadsvc.Service
	Admin    adminsvc.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	logg := deps.Logger

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(deps.Config.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, controllers.ReadinessDeps(deps.DB, deps.Redis, deps.Storage)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// The catalog reads and the gateway callback are the only unauthenticated
	// application routes; the webhook authenticates by signature instead.
	r.Get("/api/v1/products", controllers.ProductList(deps.Products, logg))
	r.Get("/api/v1/products/{productId}", controllers.ProductGet(deps.Products, logg))
	r.Post("/api/v1/webhooks/razorpay", webhookcontrollers.RazorpayWebhook(deps.Payments, deps.Gateway, deps.Guard, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Verifier, deps.Users, logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/sync", controllers.AuthSync(deps.Users, logg))
			r.Get("/me", controllers.AuthMe(deps.Users, logg))
			r.Put("/profile", controllers.AuthUpdateProfile(deps.Users, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(deps.Products, logg))
			r.Get("/mine", controllers.ProductMine(deps.Products, logg))
			r.Put("/{productId}", controllers.ProductUpdate(deps.Products, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.Orders, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(deps.Orders, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/create-order", controllers.PaymentCreateOrder(deps.Payments, logg))
			r.Post("/verify", controllers.PaymentVerify(deps.Payments, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
		})

		r.Post("/reports", controllers.ReportCreate(deps.Reports, logg))
		r.Post("/uploads/sign", controllers.UploadSign(deps.Uploads, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Verifier, deps.Users, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/users", controllers.AdminUserList(deps.Users, logg))
		r.Post("/users/{userId}/block", controllers.AdminUserBlock(deps.Users, logg))
		r.Get("/products", controllers.AdminProductList(deps.Products, logg))
		r.Post("/products/{productId}/approve", controllers.AdminProductApprove(deps.Products, logg))
		r.Get("/orders", controllers.AdminOrderList(deps.Orders, logg))
		r.Put("/orders/{orderId}/status", controllers.AdminOrderStatus(deps.Orders, logg))
		r.Get("/reports", controllers.AdminReportList(deps.Reports, logg))
		r.Post("/reports/{reportId}/resolve", controllers.AdminReportResolve(deps.Reports, logg))
		r.Get("/stats", controllers.AdminStats(deps.Admin, logg))
	})

	return r
}
