package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wafarle/wafarle-backend/api/controllers"
	"github.com/wafarle/wafarle-backend/api/middleware"
	blogsvc "github.com/wafarle/wafarle-backend/internal/blog"
	cartsvc "github.com/wafarle/wafarle-backend/internal/cart"
	"github.com/wafarle/wafarle-backend/internal/catalog"
	checkoutsvc "github.com/wafarle/wafarle-backend/internal/checkout"
	currencysvc "github.com/wafarle/wafarle-backend/internal/currencies"
	customersvc "github.com/wafarle/wafarle-backend/internal/customers"
	licensesvc "github.com/wafarle/wafarle-backend/internal/licenses"
	ordersvc "github.com/wafarle/wafarle-backend/internal/orders"
	reviewsvc "github.com/wafarle/wafarle-backend/internal/reviews"
	versionsvc "github.com/wafarle/wafarle-backend/internal/versions"
	"github.com/wafarle/wafarle-backend/pkg/auth/session"
	"github.com/wafarle/wafarle-backend/pkg/config"
	"github.com/wafarle/wafarle-backend/pkg/db"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	"github.com/wafarle/wafarle-backend/pkg/logger"
	"github.com/wafarle/wafarle-backend/pkg/metrics"
	"github.com/wafarle/wafarle-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	customersService customersvc.Service,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
	licensesService licensesvc.Service,
	reviewsService reviewsvc.Service,
	currenciesService currencysvc.Service,
	versionsService versionsvc.Service,
	blogService blogsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(customersService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(customersService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/admin-login", controllers.AdminAuthLogin(customersService, logg))
		r.Post("/refresh", controllers.AuthRefresh(customersService, logg))
		r.Post("/logout", controllers.AuthLogout(customersService, logg))
	})

	// storefront surfaces, no credentials required
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/browse", controllers.BrowseProducts(catalogService, logg))
		r.Get("/deals", controllers.ListDeals(catalogService, logg))
		r.Get("/{productId}", controllers.GetProduct(catalogService, logg))
		r.Get("/{productId}/reviews", controllers.ProductReviews(reviewsService, logg))
	})
	r.Get("/api/v1/categories", controllers.ListCategories(catalogService, logg))
	r.Get("/api/v1/currencies", controllers.ActiveCurrencies(currenciesService, logg))
	r.Route("/api/v1/versions", func(r chi.Router) {
		r.Get("/", controllers.ListVersions(versionsService, logg))
		r.Get("/latest", controllers.LatestVersion(versionsService, logg))
	})
	r.Post("/api/v1/licenses/verify", controllers.VerifyLicense(licensesService, logg))
	r.Route("/api/v1/blog", func(r chi.Router) {
		r.Get("/", controllers.PublishedPosts(blogService, logg))
		r.Get("/{slug}", controllers.GetPost(blogService, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/api/v1/me", func(r chi.Router) {
			r.Get("/", controllers.Profile(customersService, logg))
			r.Put("/", controllers.UpdateProfile(customersService, logg))
			r.Post("/password", controllers.ChangePassword(customersService, logg))
		})

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items", controllers.CartRemoveItem(cartService, logg))
			r.Post("/quote", controllers.CartQuote(cartService, logg))
		})

		r.Route("/api/v1/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutSubmit(checkoutService, logg))
			r.Post("/contact", controllers.CheckoutContact(checkoutService, logg))
			r.Post("/shipping", controllers.CheckoutShipping(checkoutService, logg))
			r.Get("/preview", controllers.CheckoutPreview(checkoutService, logg))
			r.Get("/groups/{groupId}", controllers.CheckoutGroup(checkoutService, logg))
		})

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.MyOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
		})

		r.Get("/api/v1/licenses", controllers.MyLicenses(licensesService, logg))

		r.Route("/api/v1/reviews", func(r chi.Router) {
			r.Post("/", controllers.SubmitReview(reviewsService, logg))
			r.Post("/{reviewId}/helpful", controllers.MarkReviewHelpful(reviewsService, logg))
		})

		r.Post("/api/v1/blog/{postId}/like", controllers.ToggleLike(blogService, logg))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.ActorRoleAdmin), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(catalogService, logg))
			r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(catalogService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(catalogService, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateCategory(catalogService, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(catalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(ordersService, logg))
			r.Post("/{orderId}/status", controllers.AdminUpdateOrderStatus(ordersService, logg))
		})

		r.Route("/licenses", func(r chi.Router) {
			r.Get("/", controllers.AdminListLicenses(licensesService, logg))
			r.Post("/", controllers.AdminCreateLicense(licensesService, logg))
			r.Get("/{licenseId}", controllers.AdminGetLicense(licensesService, logg))
			r.Put("/{licenseId}", controllers.AdminUpdateLicense(licensesService, logg))
			r.Delete("/{licenseId}", controllers.AdminDeleteLicense(licensesService, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.AdminListReviews(reviewsService, logg))
			r.Post("/{reviewId}/status", controllers.AdminSetReviewStatus(reviewsService, logg))
			r.Delete("/{reviewId}", controllers.AdminDeleteReview(reviewsService, logg))
		})

		r.Route("/currencies", func(r chi.Router) {
			r.Get("/", controllers.AdminListCurrencies(currenciesService, logg))
			r.Post("/", controllers.AdminCreateCurrency(currenciesService, logg))
			r.Put("/{currencyId}", controllers.AdminUpdateCurrency(currenciesService, logg))
			r.Delete("/{currencyId}", controllers.AdminDeleteCurrency(currenciesService, logg))
			r.Post("/{currencyId}/default", controllers.AdminSetDefaultCurrency(currenciesService, logg))
		})

		r.Route("/versions", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateVersion(versionsService, logg))
			r.Put("/{versionId}", controllers.AdminUpdateVersion(versionsService, logg))
			r.Delete("/{versionId}", controllers.AdminDeleteVersion(versionsService, logg))
			r.Post("/{versionId}/latest", controllers.AdminSetLatestVersion(versionsService, logg))
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", controllers.AdminListPosts(blogService, logg))
			r.Post("/", controllers.AdminCreatePost(blogService, logg))
			r.Put("/{postId}", controllers.AdminUpdatePost(blogService, logg))
			r.Delete("/{postId}", controllers.AdminDeletePost(blogService, logg))
		})
	})

	return r
}
