package http

import (
	"net/http"

	_ "github.com/DRSN-tech/go-marketplace/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// UseCases — бизнес-логика, обслуживаемая HTTP API.
type UseCases struct {
	Webhook  usecase.WebhookUC
	Account  usecase.AccountUC
	Checkout usecase.CheckoutUC
	Product  usecase.ProductUC
}

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(uc UseCases, tokens TokenParser, maxCoverSize int64) {
	r.router.Use(middleware.RequestID, middleware.Recoverer, RequestLogger(r.logger))

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // ссылка на JSON
	))

	auth := Authenticator(tokens, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerWebhookRoutes(v1, NewWebhookHandler(uc.Webhook, r.logger))
		registerCheckoutRoutes(v1, NewCheckoutHandler(uc.Checkout, r.logger))
		registerAccountRoutes(v1, NewAccountHandler(uc.Account, r.logger), auth)
		registerProductRoutes(v1, NewProductHandler(uc.Product, r.logger, maxCoverSize), auth)
	})
}

func registerWebhookRoutes(router chi.Router, h *WebhookHandler) {
	router.Post("/webhooks/stripe", h.handleStripeEvent)
}

func registerCheckoutRoutes(router chi.Router, h *CheckoutHandler) {
	router.Post("/checkout/{slug}", h.createSession)
}

func registerAccountRoutes(router chi.Router, h *AccountHandler, auth func(http.Handler) http.Handler) {
	router.Post("/accounts", h.register)
	router.Post("/auth/login", h.login)
	router.With(auth).Get("/me/library", h.library)
}

func registerProductRoutes(router chi.Router, h *ProductHandler, auth func(http.Handler) http.Handler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Get("/{slug}", h.getProduct)
		pr.With(auth).Post("/", h.createProduct)
		pr.With(auth).Patch("/{slug}", h.updateProduct)
	})
	router.With(auth).Get("/me/products", h.listOwnProducts)
}
