package commands

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"properties-api/controllers"
	"properties-api/database"
	"properties-api/publishers"
	"properties-api/repositories"
	"properties-api/routes"
	"properties-api/services"
	"properties-api/utils"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	log.Println("Starting Properties API...")

	// 1. Base de datos
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Println("Database ready")

	// 2. Eventos de cambios
	var publisher publishers.EventPublisher = publishers.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := publishers.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.PropertiesQueue)
		if err != nil {
			return err
		}
		publisher = p
	} else {
		log.Println("RABBITMQ_URL not set, property events disabled")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("Error closing publisher: %v", err)
		}
	}()

	// 3. Inicializar capas
	clock := utils.SystemClock{}
	userRepo := repositories.NewUserRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)
	cacheRepo := repositories.NewCacheRepository(cfg.CacheMaxSize, cfg.CacheTTL, cfg.MemcachedHost)

	userService := services.NewUserService(userRepo, clock)
	propertyService := services.NewPropertyService(propertyRepo, cacheRepo, publisher, clock)

	router := routes.SetupRouter(cfg.CORSAllowedOrigins, routes.Controllers{
		Property:   controllers.NewPropertyController(propertyService),
		User:       controllers.NewUserController(userService),
		Investment: controllers.NewInvestmentController(),
	})

	// 4. Servidor HTTP
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Properties API listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 5. Apagado ordenado
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		log.Printf("Received %v, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Properties API shut down complete")
	return nil
}
