package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/efreitasn/marketsim/internal/service"
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	marketSvc *service.MarketService,
	tradingSvc *service.TradingService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	marketH := NewMarketHandler(marketSvc, tradingSvc)
	operatorH := NewOperatorHandler(marketSvc, tradingSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Company routes.
	r.Post("/companies", marketH.CreateCompany)
	r.Post("/companies/{company}/listings", marketH.CreateListing)

	// Exchange routes.
	r.Post("/exchanges", marketH.CreateExchange)
	r.Put("/exchanges/{exchange}/policy", marketH.SetPolicy)
	r.Get("/exchanges/{exchange}/listings", marketH.GetListings)
	r.Get("/exchanges/{exchange}/listings/{company}", marketH.GetListing)
	r.Get("/exchanges/{exchange}/listings/{company}/trades", marketH.ListTrades)

	// Operator routes.
	r.Post("/operators", operatorH.Create)
	r.Post("/operators/{operator}/deposits", operatorH.Deposit)
	r.Post("/operators/{operator}/withdrawals", operatorH.Withdraw)
	r.Post("/operators/{operator}/purchases", operatorH.Buy)
	r.Post("/operators/{operator}/sales", operatorH.Sell)
	r.Get("/operators/{operator}/portfolio", operatorH.Portfolio)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
