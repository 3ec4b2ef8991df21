/**
 * @description
 * This file assembles the chi router for the Open Finance service. Route
 * groups mirror the credential scheme that guards them: the /public groups
 * provision credentials, the /secure groups require one. Trailing slashes on
 * the list and aggregation routes are kept for client compatibility. Every
 * route carries its own per-minute rate budget.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: HTTP router and built-in middleware.
 * - github.com/go-chi/cors: Cross-origin request handling for browser demos.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/app"
)

// NewRouter builds the full route tree. The limiter may be nil, in which
// case every rate-limit middleware is a pass-through.
func NewRouter(h *Handlers, limiter *app.RedisRateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Api-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Server is running"})
	})

	// API-key credential family.
	r.Route("/api/v1/public", func(r chi.Router) {
		r.With(RateLimit(limiter, "apikey_create_user", 2)).
			Post("/create-user", h.CreateAPIKeyUserHandler)
	})
	r.Route("/api/v1/secure", func(r chi.Router) {
		r.With(RateLimit(limiter, "apikey_validate", 5)).
			Post("/validate-key", h.ValidateKeyHandler)
		r.With(RateLimit(limiter, "apikey_hello", 5)).
			Post("/hello-user", h.HelloUserHandler)
		r.With(RateLimit(limiter, "apikey_retrieve_account", 5)).
			Post("/retrieve-external-account-for-user", h.RetrieveExternalAccountAPIKeyHandler)
		r.With(RateLimit(limiter, "apikey_fetch_accounts", 20)).
			Get("/fetch-external-accounts/", h.FetchExternalAccountsHandler)
	})

	// Bearer-token credential family.
	r.Route("/api/v1/openfinance/public", func(r chi.Router) {
		r.With(RateLimit(limiter, "bearer_create_user", 5)).
			Post("/create-user", h.CreateBearerTokenUserHandler)
	})
	r.Route("/api/v1/openfinance/secure", func(r chi.Router) {
		r.With(RateLimit(limiter, "bearer_validate", 30)).
			Post("/validate-token", h.ValidateTokenHandler)
		r.With(RateLimit(limiter, "bearer_retrieve_account", 30)).
			Post("/retrieve-external-account-for-user", h.RetrieveExternalAccountBearerHandler)
		r.With(RateLimit(limiter, "bearer_retrieve_product", 30)).
			Post("/retrieve-external-product-for-user", h.RetrieveExternalProductHandler)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(limiter, "bearer_fetch", 60))
			r.Get("/fetch-external-accounts-for-user/", h.FetchAllExternalAccountsHandler)
			r.Get("/fetch-external-accounts-for-user-and-institution/", h.FetchExternalAccountsForInstitutionHandler)
			r.Get("/fetch-external-products-for-user/", h.FetchAllExternalProductsHandler)
			r.Get("/fetch-external-products-for-user-and-institution/", h.FetchExternalProductsForInstitutionHandler)
			r.Post("/calculate-total-balance-for-user/", h.CalculateTotalBalanceHandler)
			r.Post("/calculate-total-debt-for-user/", h.CalculateTotalDebtHandler)
		})
	})

	// Leafy Bank core records, bearer-secured.
	r.Route("/api/v1/leafybank", func(r chi.Router) {
		r.Use(RateLimit(limiter, "leafybank", 60))

		r.Route("/accounts/secure", func(r chi.Router) {
			r.Get("/fetch-accounts", h.FetchAccountsHandler)
			r.Get("/fetch-active-accounts", h.FetchActiveAccountsHandler)
			r.Post("/fetch-accounts-for-user", h.FetchAccountsForUserHandler)
			r.Post("/fetch-active-accounts-for-user", h.FetchActiveAccountsForUserHandler)
			r.Post("/find-account-by-number", h.FindAccountByNumberHandler)
			r.Post("/find-active-account-by-number", h.FindActiveAccountByNumberHandler)
			r.Post("/create-account", h.CreateAccountHandler)
			r.Post("/close-account", h.CloseAccountHandler)
		})
		r.Route("/users/secure", func(r chi.Router) {
			r.Post("/find-user", h.FindUserHandler)
			r.Get("/fetch-users", h.FetchUsersHandler)
		})
		r.Route("/transactions/secure", func(r chi.Router) {
			r.Post("/fetch-recent-transactions-for-user", h.FetchRecentTransactionsForUserHandler)
		})
	})

	return r
}
