package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
	"github.com/scythe504/sketchparty/internal/config"
	"github.com/scythe504/sketchparty/internal/game"
	"github.com/scythe504/sketchparty/internal/logger"
	"github.com/scythe504/sketchparty/internal/server"
	"github.com/scythe504/sketchparty/internal/store"
	"github.com/scythe504/sketchparty/internal/utils"
)

const archiveTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	words := utils.NewWordBank(nil)
	if cfg.WordsCSV != "" {
		entries, err := utils.ReadCsvFile(cfg.WordsCSV)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.WordsCSV).Msg("could not read word list")
		}
		added := words.Extend(entries)
		log.Info().Int("words", added).Str("path", cfg.WordsCSV).Msg("word bank extended")
	}

	opts := game.Options{
		TickInterval: cfg.TickInterval,
		RevealDelay:  cfg.RevealDelay,
		HideWord:     cfg.HideWord,
		Words:        words,
	}

	var results server.ResultsSource
	if cfg.PostgresURL != "" {
		repo, err := store.NewPostgresRepo(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to postgres")
		}
		defer repo.Close()
		if err := repo.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not migrate results archive")
		}

		opts.OnGameFinished = func(res internal.FinalResults) {
			wctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
			defer cancel()
			id, err := repo.RecordGame(wctx, res)
			if err != nil {
				log.Error().Err(err).Str("room", res.RoomID).Msg("[OnGameFinished] could not archive game")
				return
			}
			log.Info().Int64("id", id).Str("room", res.RoomID).Msg("[OnGameFinished] game archived")
		}
		results = repo
		log.Info().Msg("results archive enabled")
	}

	dir := game.NewDirectory(opts)
	defer dir.Close()

	go dir.RunStats(ctx, cfg.StatsInterval)

	srv := server.NewServer(cfg, game.NewRouter(dir), results)
	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server shutdown complete")
}
