package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "kitchenstock/docs" // Registra a especificação Swagger gerada
	"kitchenstock/internal/api/inventory"
	"kitchenstock/internal/api/shoppinglist"
	"kitchenstock/internal/api/supplier"
	"kitchenstock/internal/domain"
	"kitchenstock/internal/pkg/cache"
	"kitchenstock/internal/pkg/logger"
	"kitchenstock/internal/pkg/middleware"
)

// Dependencies agrupa os Handlers e a infraestrutura já inicializados no main.
type Dependencies struct {
	Inventory    *inventory.Handler
	ShoppingList *shoppinglist.Handler
	Supplier     *supplier.Handler

	TokenService middleware.TokenService
	Cache        cache.Client
	Logger       logger.Logger

	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
	AllowedOrigins       []string
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// --- 1. Middlewares globais ---
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- 2. Health check e documentação ---
	r.Get("/ping", PingHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 3. API v1 (autenticada e com rate limit por usuário) ---
	writers := middleware.PermissionMiddleware(domain.RoleAdmin, domain.RoleUser)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.NewAuthMiddleware(deps.TokenService))
		v1.Use(middleware.RateLimiter(deps.Cache, deps.RateLimitMaxRequests, deps.RateLimitPeriod, deps.Logger))

		v1.Route("/inventory", func(ir chi.Router) {
			ir.Get("/", deps.Inventory.ListItemsHandler)
			ir.Get("/summary", deps.Inventory.SummaryHandler)
			ir.Get("/{id}", deps.Inventory.GetItemHandler)

			ir.With(writers).Post("/", deps.Inventory.CreateItemHandler)
			ir.With(writers).Put("/{id}", deps.Inventory.UpdateItemHandler)
			ir.With(writers).Delete("/{id}", deps.Inventory.DeleteItemHandler)
			ir.With(writers).Post("/{id}/adjust", deps.Inventory.AdjustQuantityHandler)
		})

		v1.Route("/shopping-list", func(sr chi.Router) {
			sr.Get("/", deps.ShoppingList.GetListHandler)

			sr.With(writers).Post("/", deps.ShoppingList.AddItemHandler)
			sr.With(writers).Post("/generate", deps.ShoppingList.GenerateHandler)
			sr.With(writers).Post("/purchase-all", deps.ShoppingList.PurchaseAllHandler)
			sr.With(writers).Delete("/purchased", deps.ShoppingList.ClearPurchasedHandler)
			sr.With(writers).Put("/{id}", deps.ShoppingList.UpdateItemHandler)
			sr.With(writers).Delete("/{id}", deps.ShoppingList.DeleteItemHandler)
			sr.With(writers).Post("/{id}/toggle", deps.ShoppingList.ToggleHandler)
		})

		v1.Route("/suppliers", func(pr chi.Router) {
			pr.Get("/", deps.Supplier.GetAllSuppliersHandler)
			pr.Get("/{id}", deps.Supplier.GetSupplierByIDHandler)

			pr.With(writers).Post("/", deps.Supplier.CreateSupplierHandler)
			pr.With(writers).Put("/{id}", deps.Supplier.UpdateSupplierHandler)
			pr.With(writers).Delete("/{id}", deps.Supplier.DeleteSupplierHandler)
		})
	})

	return r
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
