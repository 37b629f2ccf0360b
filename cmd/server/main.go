package main

import (
	"log"

	"github.com/jengzang/traffic-backend-go/internal/api"
	"github.com/jengzang/traffic-backend-go/internal/config"
	"github.com/jengzang/traffic-backend-go/internal/database"
	"github.com/jengzang/traffic-backend-go/internal/repository"
	"github.com/jengzang/traffic-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	trafficRepo := repository.NewTrafficRepository(db)
	runRepo := repository.NewRunRepository(db)

	trafficService := service.NewTrafficService(trafficRepo)
	if err := trafficService.EnsureDataset(cfg.DatasetPath); err != nil {
		log.Fatal("Failed to prepare dataset:", err)
	}

	simService := service.NewSimulationService(trafficRepo, runRepo, cfg.GridSize)

	router := api.SetupRouter(cfg, simService, trafficService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
