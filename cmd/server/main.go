package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/alvinmalapojr/wallet/internal/adapter/http/controller"
	"github.com/alvinmalapojr/wallet/internal/adapter/http/middleware"
	"github.com/alvinmalapojr/wallet/internal/adapter/http/router"
	"github.com/alvinmalapojr/wallet/internal/adapter/repository/postgres"
	"github.com/alvinmalapojr/wallet/internal/config"
	"github.com/alvinmalapojr/wallet/internal/events"
	eventskafka "github.com/alvinmalapojr/wallet/internal/events/kafka"
	"github.com/alvinmalapojr/wallet/internal/identifier"
	"github.com/alvinmalapojr/wallet/internal/logger"
	"github.com/alvinmalapojr/wallet/internal/usecase/services"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	walletRepo := postgres.NewWalletRepository(db)

	numbers := identifier.NewGenerator(userRepo.ExistsByAccountNumber, transactionRepo.ExistsByNumber)

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := eventskafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	walletService := services.NewWalletService(walletRepo, numbers, publisher)
	userService := services.NewUserService(userRepo, transactionRepo, numbers)

	walletController := controller.NewWalletController(walletService)
	userController := controller.NewUserController(userService)

	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey)
	mux := router.New(walletController, userController, authMiddleware)

	logger.Info("wallet server starting", logger.Fields{
		"addr": cfg.HTTPAddr,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           middleware.RequestID(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("serve http: %v", err)
	}
}
