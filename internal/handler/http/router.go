package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/foodcart/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
}

// NewRouter registers every route. Metrics are served from gatherer.
func NewRouter(svc Services, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(Recovery(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(RequestLogger(logger))

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "up"}})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	catalog := NewCatalogHandler(svc.Catalog, logger)
	carts := NewCartHandler(svc.Cart, logger)
	checkout := NewCheckoutHandler(svc.Cart, svc.Checkout, logger)
	orders := NewOrderHandler(svc.Orders, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/products", catalog.ListProducts)
		r.With(RequireViewer).Get("/products/low-stock", catalog.LowStock)

		r.Route("/cart", func(r chi.Router) {
			r.Use(RequireSession)

			r.Get("/", carts.GetCart)
			r.Delete("/", carts.ClearCart)
			r.Post("/items", carts.AddItem)
			r.Patch("/items/{productID}", carts.UpdateItem)
			r.Delete("/items/{productID}", carts.RemoveItem)
		})

		r.With(RequireSession, RequireViewer).Post("/checkout", checkout.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Use(RequireViewer)

			r.Get("/", orders.ListOrders)
			r.Get("/{orderID}", orders.GetOrder)
		})
	})

	return r
}
