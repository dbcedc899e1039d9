package main

import (
	"flag"
	"fmt"

	"pennywise/internal/assistant"
	"pennywise/internal/classifier"
	"pennywise/internal/clock"
	"pennywise/internal/config"
	"pennywise/internal/database"
	"pennywise/internal/events"
	"pennywise/internal/llm"
	"pennywise/internal/logger"
	"pennywise/internal/server"
	"pennywise/internal/services"
	"pennywise/internal/validator"
)

var configPath = flag.String("config", config.DefaultPath(), "Path to the YAML config file.")

// @title           Pennywise API
// @version         1.0
// @description     Pennywise tracks recurring income and expenses, monitors budgets and analyses spending.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	flag.Parse()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	dbManager, err := database.NewManager(database.NewConfig(cfg.Database))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	publisher, err := newPublisher(cfg.AMQP)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnw("failed to close event publisher", "error", err)
		}
	}()

	validator.Register()

	db := dbManager.DB()
	svc := server.NewServices(db, clock.SystemClock{}, publisher)

	opts := server.Options{
		DB:          db,
		Classifier:  newClassifier(cfg, svc.Transactions),
		CORSOrigins: cfg.AllowedOrigins(),
	}
	if client := llm.NewClient(cfg.AI); client != nil {
		retriever := assistant.NewLedgerRetriever(svc.Transactions, assistant.DefaultContextSize, cfg.Currency)
		opts.Assistant = assistant.New(client, retriever, svc.Transactions, cfg.AI, cfg.Currency)
	} else {
		log.Info("AI provider disabled, assistant unavailable")
	}

	router := server.NewRouter(svc, opts)

	log.Infof("Starting Pennywise server on port %s", cfg.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return router.Run(":" + cfg.Port)
}

func newPublisher(cfg config.AMQP) (events.Publisher, error) {
	if cfg.URL == "" {
		return events.Nop{}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}
	logger.Get().Infow("publishing ledger events", "exchange", cfg.Exchange)
	return publisher, nil
}

// newClassifier tries the language model first, when one is configured,
// and falls back to a naive Bayes model trained on the current ledger.
func newClassifier(cfg *config.Config, transactions services.TransactionServicer) classifier.Classifier {
	log := logger.Get()
	var chain classifier.Chain

	if client := llm.NewClient(cfg.AI); client != nil {
		chain = append(chain, classifier.NewOpenAIClassifier(client, cfg.AI.Model))
	}

	txs, err := transactions.GetAllTransactions()
	if err != nil {
		log.Warnw("failed to load transactions for classifier training", "error", err)
	} else if bayes, err := classifier.NewBayesClassifier(txs); err != nil {
		log.Infow("bayes classifier not trained", "reason", err)
	} else {
		chain = append(chain, bayes)
	}

	if len(chain) == 0 {
		return nil
	}
	return chain
}
