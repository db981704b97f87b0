package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Infraestrutura e utilitários
	"kitchenstock/config"
	"kitchenstock/internal/pkg/cache"
	"kitchenstock/internal/pkg/database"
	"kitchenstock/internal/pkg/logger"
	"kitchenstock/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"kitchenstock/internal/api/inventory"
	"kitchenstock/internal/api/router"
	"kitchenstock/internal/api/shoppinglist"
	"kitchenstock/internal/api/supplier"
	"kitchenstock/internal/repository/inventoryrepo"
	"kitchenstock/internal/repository/shoppinglistrepo"
	"kitchenstock/internal/repository/supplierrepo"
	"kitchenstock/internal/service/inventoryservice"
	"kitchenstock/internal/service/shoppinglistservice"
	"kitchenstock/internal/service/supplierservice"
)

// @title KitchenStock API
// @version 1.0
// @description Estoque do restaurante e lista de compras gerada a partir dos níveis de reposição.
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	log.Println("⚡ Inicializando serviço KitchenStock...")

	// 0. Variáveis de ambiente (.env é opcional; em Docker as variáveis vêm do sistema)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 1. Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis). Sem Redis a API segue funcionando: leituras vão ao banco e o rate limit fica aberto.
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		appLog.Warn("Redis indisponível. Continuando sem cache.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
	} else {
		appLog.Info("Conexão Redis estabelecida.", nil)
	}
	defer cacheClient.Close()

	// C. Validação dos tokens do provedor de identidade
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 2. Injeção de dependências: Repository -> Service -> Handler
	inventoryRepo := inventoryrepo.NewInventoryRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, appLog)
	shoppingListRepo := shoppinglistrepo.NewShoppingListRepository(db, cfg.DBTimeout, appLog)
	supplierRepo := supplierrepo.NewSupplierRepository(db, cfg.DBTimeout, appLog)

	inventorySvc := inventoryservice.NewService(inventoryRepo, appLog)
	shoppingListSvc := shoppinglistservice.NewService(shoppingListRepo, inventoryRepo, appLog)
	supplierSvc := supplierservice.NewService(supplierRepo, appLog)

	handler := router.NewRouter(router.Dependencies{
		Inventory:            inventory.NewHandler(inventorySvc, appLog),
		ShoppingList:         shoppinglist.NewHandler(shoppingListSvc, appLog),
		Supplier:             supplier.NewHandler(supplierSvc, appLog),
		TokenService:         tokenSvc,
		Cache:                cacheClient,
		Logger:               appLog,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
		AllowedOrigins:       cfg.CORSAllowedOrigins,
	})
	appLog.Debug("Dependências inicializadas.", nil)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 3. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor KitchenStock ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
