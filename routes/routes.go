package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rrlogistics/handlers"
	"rrlogistics/logger"
	"rrlogistics/models"
)

type Handlers struct {
	Users        *handlers.UserHandler
	Consignments *handlers.ConsignmentHandler
	Shipments    *handlers.ShipmentHandler
	Invoices     *handlers.InvoiceHandler
	RateCards    *handlers.RateCardHandler
	Pricing      *handlers.PricingHandler
}

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SetupRoutes builds the API router. auth validates bearer tokens for every
// non-public route.
func SetupRoutes(h Handlers, auth handlers.AuthService) http.Handler {
	r := chi.NewRouter()
	r.Use(
		withCORS,
		handlers.RequestID,
		logger.RequestLogger,
		handlers.RecoverWrapper,
	)

	admins := handlers.RequireRoles(models.RoleMasterAdmin, models.RoleChildAdmin)
	masterOnly := handlers.RequireRoles(models.RoleMasterAdmin)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/auth/login", h.Users.Login)
		r.Get("/track/{number}", h.Shipments.Track)
		r.Post("/pricing/calculate", h.Pricing.Calculate)

		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireAuth(auth))

			r.Get("/users/me", h.Users.Me)
			r.Put("/users/me", h.Users.UpdateMe)
			r.With(admins).Get("/users", h.Users.List)
			r.With(masterOnly).Post("/users", h.Users.Signup)

			r.Route("/consignments", func(r chi.Router) {
				r.Use(admins)
				r.Post("/", h.Consignments.Create)
				r.Get("/", h.Consignments.List)
				r.Get("/{id}", h.Consignments.Get)
				r.Put("/{id}", h.Consignments.Update)
				r.Patch("/{id}", h.Consignments.Update)
				r.Delete("/{id}", h.Consignments.Delete)
			})

			r.Route("/shipments", func(r chi.Router) {
				r.Get("/", h.Shipments.List)
				r.With(admins).Post("/", h.Shipments.Create)
				r.Get("/{id}", h.Shipments.Get)
				r.With(admins).Delete("/{id}", h.Shipments.Delete)
				r.With(admins).Patch("/{id}/status", h.Shipments.UpdateStatus)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", h.Invoices.List)
				r.Get("/{id}", h.Invoices.Get)
				r.With(admins).Post("/{id}/payments", h.Invoices.AddPayment)
			})

			r.Route("/rate-cards", func(r chi.Router) {
				r.Use(admins)
				r.Get("/config", h.RateCards.Config)
				r.Post("/fetch", h.RateCards.Fetch)
				r.Get("/", h.RateCards.List)
				r.Post("/", h.RateCards.Create)
				r.Get("/{id}", h.RateCards.Get)
				r.Put("/{id}", h.RateCards.Update)
				r.Delete("/{id}", h.RateCards.Delete)
				r.Patch("/{id}/toggle", h.RateCards.Toggle)
			})

			r.Route("/pricing/rules", func(r chi.Router) {
				r.With(admins).Get("/", h.Pricing.ListRules)
				r.With(masterOnly).Post("/", h.Pricing.CreateRule)
				r.With(masterOnly).Put("/{id}", h.Pricing.UpdateRule)
				r.With(masterOnly).Delete("/{id}", h.Pricing.DeleteRule)
			})
		})
	})

	return r
}
