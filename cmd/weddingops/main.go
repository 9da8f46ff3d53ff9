package main

import (
	"fmt"
	"os"

	"github.com/evermore-events/weddingops/internal/auth"
	"github.com/evermore-events/weddingops/internal/config"
	"github.com/evermore-events/weddingops/internal/db"
	"github.com/evermore-events/weddingops/internal/excel"
	httphandler "github.com/evermore-events/weddingops/internal/http"
	"github.com/evermore-events/weddingops/internal/http/middleware"
	"github.com/evermore-events/weddingops/internal/logger"
	"github.com/evermore-events/weddingops/internal/pdf"
	"github.com/evermore-events/weddingops/internal/repository"
	"github.com/evermore-events/weddingops/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	contractRepo := repository.NewContractRepository(database)
	catalogRepo := repository.NewCatalogRepository(database)

	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()

	billingService := service.NewBillingService(contractRepo, catalogRepo, cfg, log)
	statementService := service.NewStatementService(billingService, contractRepo, pdfGenerator, excelGenerator)
	catalogService := service.NewCatalogService(catalogRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(billingService, statementService, catalogService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting weddingops service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
