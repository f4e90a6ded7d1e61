package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/billraya/ewallet-backend/internal/api/handlers"
	"github.com/billraya/ewallet-backend/internal/api/httpx"
	"github.com/billraya/ewallet-backend/internal/config"
	"github.com/billraya/ewallet-backend/internal/metrics"
	"github.com/billraya/ewallet-backend/internal/middleware"
	"github.com/billraya/ewallet-backend/internal/services"
)

type RouterDeps struct {
	Cfg         config.Config
	UserSvc     *services.UserService
	WalletSvc   *services.WalletService
	TransferSvc *services.TransferService
	CatalogSvc  *services.CatalogService
	AuthMW      *middleware.AuthMiddleware
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	th := handlers.NewTransferHandler(d.TransferSvc)

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- auth ----------
		r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Username, Email, Password, PIN string }
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "bad request", nil)
				return
			}
			u, err := d.UserSvc.Register(r.Context(), req.Username, req.Email, req.Password, req.PIN)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusCreated, u)
		})

		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Email, Password string }
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "bad request", nil)
				return
			}
			tok, exp, err := d.UserSvc.Login(r.Context(), req.Email, req.Password)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_login", "invalid credentials", nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, map[string]any{
				"token":      tok,
				"expires_in": int64(time.Until(exp).Seconds()),
			})
		})

		// ---------- reference data ----------
		r.Get("/payment-methods", func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, d.CatalogSvc.ActivePaymentMethods())
		})
		r.Get("/tips", func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, d.CatalogSvc.Tips())
		})

		// ---------- authenticated ----------
		r.Group(func(r chi.Router) {
			r.Use(d.AuthMW.Auth)

			r.Get("/wallets/me", func(w http.ResponseWriter, r *http.Request) {
				uid, _ := middleware.UserID(r.Context())
				wallet, err := d.WalletSvc.Current(r.Context(), uid)
				if err != nil {
					httpx.WriteError(w, http.StatusNotFound, "not_found", "wallet not found", nil)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, wallet)
			})

			r.Post("/transfers", th.Create)
			r.Get("/transfers", th.ListHistory)
			r.Get("/transfers/{code}", th.ByCode)
			r.Get("/transactions", th.ListTransactions)
		})
	})

	return r
}
