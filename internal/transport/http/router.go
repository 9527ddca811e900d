package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/villa-booking-api/internal/application/auth"
	"github.com/villa-booking-api/internal/application/booking"
	"github.com/villa-booking-api/internal/application/contact"
	"github.com/villa-booking-api/internal/application/review"
	"github.com/villa-booking-api/internal/application/user"
	"github.com/villa-booking-api/internal/application/villa"
	"github.com/villa-booking-api/internal/config"
	"github.com/villa-booking-api/internal/domain"
	jwtinfra "github.com/villa-booking-api/internal/infrastructure/jwt"
	"github.com/villa-booking-api/internal/infrastructure/postgres"
	s3infra "github.com/villa-booking-api/internal/infrastructure/s3"
	"github.com/villa-booking-api/internal/infrastructure/smtp"
	"github.com/villa-booking-api/internal/infrastructure/sns"
	"github.com/villa-booking-api/internal/transport/http/handler"
	appmiddleware "github.com/villa-booking-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *postgres.UserRepo
	VillaRepo   *postgres.VillaRepo
	BookingRepo *postgres.BookingRepo
	ReviewRepo  *postgres.ReviewRepo
	ContactRepo *postgres.ContactRepo
	S3Store     *s3infra.Store
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw, optionalAuthMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
		optionalAuthMw = appmiddleware.OptionalAuth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
		optionalAuthMw = authMw
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:    deps.UserRepo,
		JWTProvider: deps.JWTProvider,
		Mailer:      deps.Mailer,
		FrontendURL: cfg.FrontendURL,
		ResetTTL:    time.Duration(cfg.ResetTokenTTL) * time.Minute,
	})
	userSvc := user.NewService(deps.UserRepo)
	villaSvc := villa.NewService(deps.VillaRepo, deps.S3Store)
	bookingSvc := booking.NewService(booking.ServiceDeps{
		BookingRepo: deps.BookingRepo,
		VillaRepo:   deps.VillaRepo,
		UserRepo:    deps.UserRepo,
		SMSSender:   deps.SMSSender,
	})
	reviewSvc := review.NewService(deps.ReviewRepo, deps.VillaRepo)
	contactSvc := contact.NewService(deps.ContactRepo, deps.Mailer, cfg.ContactEmail)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	villaH := handler.NewVillaHandler(villaSvc, deps.S3Store)
	bookingH := handler.NewBookingHandler(bookingSvc, deps.S3Store)
	reviewH := handler.NewReviewHandler(reviewSvc)
	contactH := handler.NewContactHandler(contactSvc)
	uploadsH := handler.NewUploadsHandler(deps.S3Store)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/forgot-password", authH.ForgotPassword)
		r.With(sensitiveRL.Limit).Post("/auth/reset-password", authH.ResetPassword)
		r.With(sensitiveRL.Limit).Post("/contact", contactH.Submit)
		r.Get("/uploads/*", uploadsH.Serve)
		r.Get("/villas/{id}/reviews", reviewH.ListForVilla)

		// ── Optionally authenticated reads ───────────────────────────────────
		// A token widens visibility (owners see their own pending listings,
		// admins see everything) but is never required here.
		r.Group(func(r chi.Router) {
			r.Use(optionalAuthMw)

			r.Get("/villas", villaH.List)
			r.Get("/villas/{id}", villaH.Get)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)

			r.With(appmiddleware.RequireRole(domain.RoleOwner, domain.RoleAdmin)).
				Post("/villas", villaH.Submit)
			r.Put("/villas/{id}", villaH.Update)
			r.Delete("/villas/{id}", villaH.Delete)

			r.Post("/bookings", bookingH.Create)
			r.Get("/bookings", bookingH.List)
			r.Get("/bookings/{id}", bookingH.Get)
			r.Put("/bookings/{id}/status", bookingH.UpdateStatus)

			r.Post("/villas/{id}/reviews", reviewH.Create)
			r.Delete("/reviews/{reviewID}", reviewH.Delete)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Delete("/users/{id}", userH.Delete)
				r.Put("/villas/{id}/status", villaH.SetStatus)
			})
		})
	})

	return r
}
