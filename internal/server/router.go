package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"atelier/internal/catalog"
	ordercontroller "atelier/internal/order/controller"
	"atelier/internal/report"
)

func NewRouter(
	catalogCtrl *catalog.Controller,
	orderCtrl *ordercontroller.Controller,
	reportCtrl *report.Controller,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogCtrl.HandleListProducts)
			r.Get("/{productID}", catalogCtrl.HandleGetProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderCtrl.HandleCreateOrder)
			r.Get("/", orderCtrl.HandleListOrders)
			r.Get("/export", orderCtrl.HandleExportOrders)
			r.Get("/{orderID}", orderCtrl.HandleGetOrder)
			r.Patch("/{orderID}/status", orderCtrl.HandleUpdateStatus)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", reportCtrl.HandleSalesSummary)
			r.Get("/status-counts", reportCtrl.HandleStatusCounts)
			r.Get("/daily", reportCtrl.HandleDailyRevenue)
			r.Get("/top-products", reportCtrl.HandleTopProducts)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
