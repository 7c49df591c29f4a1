package http

import (
	"net/http"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	CORSAllowOrigins   []string

	// TracerProvider defaults to the global provider when nil.
	TracerProvider trace.TracerProvider
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewRouter(cfg RouterConfig, products *ProductHandler, cart *CartHandler, checkout *CheckoutHandler, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(RequestLogger(log))
	r.Use(Recover(log))
	r.Use(CORS(cfg.CORSAllowOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	if cfg.MaxRequestBodySize > 0 {
		r.Use(LimitBody(cfg.MaxRequestBodySize))
	}
	r.Use(middleware.Compress(5))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, domain.KindNotFound, "The requested endpoint does not exist")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, domain.KindNotFound, "The requested endpoint does not exist")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Message: "Server is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.GetProducts)
			r.Get("/{id}", products.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Post("/", cart.AddItem)
			r.Delete("/", cart.ClearCart)
			r.Put("/{id}", cart.UpdateItem)
			r.Delete("/{id}", cart.RemoveItem)
		})

		r.Post("/checkout", checkout.Checkout)
	})

	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	return otelhttp.NewHandler(r, "shop", opts...)
}
