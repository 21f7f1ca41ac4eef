package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-admin/api"
	"github.com/rpupo63/portfolio-admin/config"
	"github.com/rpupo63/portfolio-admin/database"
	"github.com/rpupo63/portfolio-admin/models"
	"github.com/rpupo63/portfolio-admin/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	c := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := config.ResolveSSMParameters(ctx, c); err != nil {
		log.Fatal().Err(err).Msg("Error resolving SSM parameters")
	}

	log.Info().Str("dbType", config.GetString(c, "DB_TYPE", "supa")).Msg("Connecting to database...")
	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, config.GetString(c, "GENERATE_MODELS_OUT", "./query")); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReport(db)
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	currentDB := database.New(db)
	if err := currentDB.SeedLookups(ctx, config.GetList(c, "SEED_CATEGORIES"), config.GetList(c, "SEED_TECHNOLOGIES")); err != nil {
		log.Fatal().Err(err).Msg("Error seeding categories and technologies")
	}

	store, err := newStore(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing asset storage")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, currentDB, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// newStore picks the screenshot backend named by STORAGE_DRIVER
func newStore(ctx context.Context, c map[string]string) (storage.Store, error) {
	switch driver := config.GetString(c, "STORAGE_DRIVER", "local"); driver {
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    config.GetString(c, "S3_BUCKET", ""),
			Region:    config.GetString(c, "AWS_REGION", ""),
			Endpoint:  config.GetString(c, "S3_ENDPOINT", ""),
			PublicURL: config.GetString(c, "S3_PUBLIC_URL", ""),
		})
	case "local":
		return storage.NewLocalStore(config.GetString(c, "LOCAL_STORAGE_ROOT", "./storage-data"), api.LocalStoragePath)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", driver)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
