package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"bolao/internal/config"
	"bolao/internal/handlers"
	"bolao/internal/services"
	"bolao/internal/storage/postgres"
)

func main() {
	defer logger.Init("bolao", true, false, os.Stdout).Close()
	config.Init()

	// 1. Open the database and make sure the schema exists.
	db, err := sql.Open("postgres", config.DBURL())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	store := postgres.New(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// 2. Initialize the services.
	reprocessor := services.NewReprocessService(store)
	bolaoService := services.NewBolaoService(store, reprocessor)

	// 3. Initialize the HTTP handler and router.
	httpHandler := handlers.NewHTTPHandler(bolaoService, reprocessor)
	r := gin.Default()
	httpHandler.RegisterRoutes(r)

	// 4. Schedule the periodic reprocess sweep; revenue keeps changing as
	// payments confirm, so finished contests are recomputed on a timer too.
	c := cron.New()
	if _, err := c.AddFunc(config.ReprocessCron(), func() {
		reprocessor.ReprocessAll(context.Background())
	}); err != nil {
		log.Fatalf("Failed to schedule reprocess sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	// 5. Run the server.
	logger.Infof("Server starting on %s", config.ListenAddress())
	if err := r.Run(config.ListenAddress()); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
