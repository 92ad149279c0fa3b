package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bally3399/chord001-monograms/internal/service"
	"github.com/bally3399/chord001-monograms/pkg/health"
	"github.com/bally3399/chord001-monograms/pkg/middleware"
)

const serviceName = "storefront"

// catalogMaxAge is how long public catalog responses may be cached, in seconds.
const catalogMaxAge = 60

// Dependencies are the collaborators mounted by NewRouter.
type Dependencies struct {
	Designs   *service.DesignService
	Favorites *service.FavoriteService
	Cart      *service.CartService
	Admin     *service.AdminService

	// VerifyViewer resolves a bearer token to a viewer ID.
	VerifyViewer middleware.TokenVerifier
	// LoginLimiter throttles admin login attempts per client IP.
	LoginLimiter *middleware.RateLimiter
	// Files serves locally stored uploads. Nil when uploads go to Cloudinary.
	Files FileStore

	Health *health.Handler
	CORS   middleware.CORSConfig
	Logger *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(deps.CORS))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	if deps.Files != nil {
		r.Get("/uploads/{key}", ServeUpload(deps.Files))
	}

	designHandler := NewDesignHandler(deps.Designs, logger)
	favoriteHandler := NewFavoriteHandler(deps.Favorites, logger)
	cartHandler := NewCartHandler(deps.Cart, logger)
	adminHandler := NewAdminHandler(deps.Admin, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public catalog
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(catalogMaxAge))

			r.Get("/designs", designHandler.ListDesigns)
			r.Get("/designs/{id}", designHandler.GetDesign)
		})

		// Viewer-scoped relations
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(deps.VerifyViewer))
			r.Use(middleware.RequireViewer)

			r.Get("/favorites", favoriteHandler.ListFavorites)
			r.Post("/favorites", favoriteHandler.AddFavorite)
			r.Get("/favorites/designs/{designId}", favoriteHandler.GetFavoriteByDesign)
			r.Delete("/favorites/designs/{designId}", favoriteHandler.RemoveFavoriteByDesign)
			r.Delete("/favorites/{id}", favoriteHandler.RemoveFavorite)
			r.Post("/favorites/{id}/move-to-cart", favoriteHandler.MoveToCart)

			r.Get("/cart", cartHandler.GetCart)
			r.Post("/cart", cartHandler.AddToCart)
			r.Get("/cart/checkout", cartHandler.Checkout)
			r.Get("/cart/designs/{designId}", cartHandler.GetCartItemByDesign)
			r.Delete("/cart/designs/{designId}", cartHandler.RemoveByDesign)
			r.Put("/cart/{id}", cartHandler.UpdateQuantity)
			r.Delete("/cart/{id}", cartHandler.RemoveItem)
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.With(deps.LoginLimiter.Handler).Post("/sessions", adminHandler.Login)
			r.Delete("/sessions", adminHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(deps.Admin.CheckSession))

				r.Get("/designs", designHandler.ListDesigns)
				r.Post("/designs", designHandler.CreateDesign)
				r.Put("/designs/{id}", designHandler.UpdateDesign)
				r.Delete("/designs/{id}", designHandler.DeleteDesign)
				r.Patch("/designs/{id}/featured", designHandler.SetFeatured)
				r.Post("/uploads", adminHandler.UploadImage)
			})
		})
	})

	return r
}
