package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"kitchenstock/config"
	"kitchenstock/internal/pkg/database"
	"kitchenstock/internal/pkg/logger"
)

func main() {
	// Carrega o .env, se existir
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema: %v", err)
	}

	cfg := config.LoadMigrationConfig()
	appLog := logger.NewLogger(cfg.LogLevel)

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "./sql", "diretório com os arquivos de migração")
	flag.Parse()

	db, err := database.NewPostgresDB(cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		appLog.Fatal("goose: falha ao conectar ao DB.", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		appLog.Fatal("goose: dialeto não suportado.", err)
	}
	goose.SetLogger(goose.NopLogger())

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"} // Padrão: aplicar todas as migrações pendentes
	}

	command := arguments[0]
	args := arguments[1:]

	if err := goose.RunContext(context.Background(), command, db, migrationsDir, args...); err != nil {
		appLog.Fatal("goose: falha ao executar "+command+".", err)
	}

	appLog.Info("goose: migração concluída.", map[string]interface{}{"command": command, "dir": migrationsDir})
}
