package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cinapps/cinapps/internal/business"
	"github.com/cinapps/cinapps/internal/infrastructure"
	"github.com/cinapps/cinapps/internal/service/server"
)

// Environment variables names
const (
	EnvDBPath      = "DB_PATH"
	EnvInboxPath   = "INBOX_PATH"
	EnvArchivePath = "ARCHIVE_PATH"
	EnvPort        = "PORT"
	EnvTMDBAPIKey  = "TMDB_API_KEY"
	EnvPredictURL  = "PREDICT_URL"
	EnvLogLevel    = "LOG_LEVEL"
)

func main() {
	godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	if level, err := zerolog.ParseLevel(os.Getenv(EnvLogLevel)); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	dbPath := os.Getenv(EnvDBPath)
	if dbPath == "" {
		dbPath = "cinapps.db"
	}
	db, err := infrastructure.NewSQLite(dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open film database")
	}
	defer db.Close()

	var metadata business.FilmMetadataGetter
	if apiKey := os.Getenv(EnvTMDBAPIKey); apiKey != "" {
		mw, err := infrastructure.NewMetadataWrapper(apiKey)
		if err != nil {
			log.Error().Err(err).Msg("Could not initialize TMDB client, poster lookup disabled")
		} else {
			metadata = mw
		}
	}

	fm := business.NewFilmManager(db, metadata)
	pm := business.NewPersonManager(db)

	if inboxPath := os.Getenv(EnvInboxPath); inboxPath != "" {
		archivePath := os.Getenv(EnvArchivePath)
		if archivePath == "" {
			archivePath = inboxPath + "/archive"
		}
		iw, err := business.NewInboxWatcher(fm, inboxPath, archivePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not watch record inbox")
		}
		go iw.Run()
		defer iw.Stop()
	}

	var predictor server.AdmissionsPredictor
	if predictURL := os.Getenv(EnvPredictURL); predictURL != "" {
		predictor = infrastructure.NewPredictor(predictURL)
	}

	filmHandler := server.NewFilmHandler(fm, pm, predictor)
	personHandler := server.NewPersonHandler(pm)

	port := os.Getenv(EnvPort)
	if port == "" {
		port = "8080"
	}
	srv := server.NewServer(filmHandler, personHandler)
	if err := srv.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
