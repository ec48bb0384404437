package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"lease-agent/metrics"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Lease       *LeaseHandler
	CarDeals    *CarDealHandler
	Offers      *OfferHandler
	RateLimiter *RateLimiter
}

// NewRouter wires the API routes. Only the /lease calculator routes are rate
// limited.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/lease", func(r chi.Router) {
		if h.RateLimiter != nil {
			r.Use(RateLimitMiddleware(h.RateLimiter))
		}
		r.Post("/calculate", h.Lease.Calculate)
		r.Post("/edit", h.Lease.Edit)
		r.Get("/defaults", h.Lease.Defaults)
		r.Post("/estimate-residual", h.Lease.EstimateResidual)
		r.Post("/monthly-payment", h.Lease.MonthlyPayment)
		r.Post("/treatments", h.Lease.CompareTreatments)
		r.Get("/quotes", h.Lease.History)
	})

	r.Route("/car-deals", func(r chi.Router) {
		r.Get("/", h.CarDeals.List)
		r.Post("/", h.CarDeals.Create)
		r.Route("/{carDealID}", func(r chi.Router) {
			r.Get("/", h.CarDeals.Get)
			r.Put("/", h.CarDeals.Update)
			r.Delete("/", h.CarDeals.Delete)
			r.Get("/overview", h.CarDeals.Overview)
			r.Get("/dealerships", h.CarDeals.ListDealerships)
			r.Post("/dealerships", h.CarDeals.CreateDealership)
			r.Get("/offers", h.Offers.ListByCarDeal)
			r.Post("/offers", h.Offers.Create)
			r.Get("/offers/compare", h.Offers.Compare)
		})
	})

	r.Route("/dealerships/{dealershipID}", func(r chi.Router) {
		r.Delete("/", h.CarDeals.DeleteDealership)
		r.Get("/contacts", h.CarDeals.ListContacts)
		r.Post("/contacts", h.CarDeals.CreateContact)
		r.Get("/offers", h.Offers.ListByDealership)
	})

	r.Delete("/contacts/{contactID}", h.CarDeals.DeleteContact)

	r.Route("/offers/{offerID}", func(r chi.Router) {
		r.Get("/", h.Offers.Get)
		r.Put("/", h.Offers.Update)
		r.Delete("/", h.Offers.Delete)
		r.Get("/payment", h.Offers.Payment)
		r.Get("/notes", h.Offers.ListNotes)
		r.Post("/notes", h.Offers.AddNote)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		zap.L().Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
