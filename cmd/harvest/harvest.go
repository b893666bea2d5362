package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cinapps/cinapps/internal/business"
	"github.com/cinapps/cinapps/internal/infrastructure"
)

// Environment variables names
const (
	EnvDBPath     = "DB_PATH"
	EnvTMDBAPIKey = "TMDB_API_KEY"
)

func main() {
	var (
		reset    = flag.Bool("reset", false, "clear the whole database before importing")
		urlsFile = flag.String("urls", "", "file with one film page URL per line")
	)
	flag.Parse()

	godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

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
		if mw, err := infrastructure.NewMetadataWrapper(apiKey); err == nil {
			metadata = mw
		}
	}

	fm := business.NewFilmManager(db, metadata)
	pm := business.NewPersonManager(db)
	harvester := infrastructure.NewHarvester()

	ctx := context.Background()

	if *reset {
		if err := fm.ResetStore(ctx); err != nil {
			log.Fatal().Err(err).Msg("Could not reset film database")
		}
	}

	pageURLs := flag.Args()
	if *urlsFile != "" {
		fromFile, err := readURLs(*urlsFile)
		if err != nil {
			log.Fatal().Str("path", *urlsFile).Err(err).Msg("Could not read URL list")
		}
		pageURLs = append(pageURLs, fromFile...)
	}
	if len(pageURLs) == 0 {
		log.Fatal().Msg("No film page URL to harvest")
	}

	imported := 0
	for _, pageURL := range pageURLs {
		raw, err := harvester.HarvestFilmPage(pageURL)
		if err != nil {
			log.Error().Str("url", pageURL).Err(err).Msg("Could not harvest film page")
			continue
		}
		if _, err := fm.ImportRecord(ctx, raw); err != nil {
			log.Error().Str("url", pageURL).Err(err).Msg("Could not import film")
			continue
		}
		imported++
	}
	log.Info().Int("imported", imported).Int("total", len(pageURLs)).Msg("Harvest finished")

	if err := pm.WarnSimilarNames(ctx); err != nil {
		log.Error().Err(err).Msg("Could not check for duplicate person names")
	}
}

func readURLs(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			urls = append(urls, line)
		}
	}
	return urls, scanner.Err()
}
