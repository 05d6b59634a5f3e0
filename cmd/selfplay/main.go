package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/fishderby/automatic"
	"github.com/domino14/fishderby/bot"
	"github.com/domino14/fishderby/config"
	"github.com/domino14/fishderby/game"
	"github.com/domino14/fishderby/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli})

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	// Parallel games would overwrite each other's tree dumps.
	cfg.Set(config.ConfigDotPath, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	var recorder store.Recorder
	if path := cfg.GetString(config.ConfigStorePath); path != "" {
		db, err := store.Open(path)
		if err != nil {
			log.Fatal().Err(err).Msg("opening decision log")
		}
		defer db.Close()
		recorder = db
	}

	var seeds [][32]byte
	if path := cfg.GetString(config.ConfigSelfplaySeeds); path != "" {
		var err error
		if seeds, err = automatic.LoadSeeds(path); err != nil {
			log.Fatal().Err(err).Msg("loading seeds")
		}
	}

	players := automatic.EnginePlayers(cfg, recorder)
	if cfg.GetString(config.ConfigSelfplayOpponent) == "nats" {
		// player 1 is whatever bot listens on the subject
		nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL), nats.Name("selfplay"))
		if err != nil {
			log.Fatal().Err(err).Msg("connecting to nats")
		}
		defer nc.Close()
		engines := players
		players = func() ([game.NumPlayers]automatic.Player, error) {
			p, err := engines()
			if err != nil {
				return p, err
			}
			p[1] = bot.NewClient(nc, cfg.GetString(config.ConfigNatsSubject))
			return p, nil
		}
	}

	summary, err := automatic.StartCompVCompGames(ctx, cfg, players, seeds)
	if summary != nil {
		summary.WriteReport(os.Stdout)
	}
	if err != nil {
		log.Error().Err(err).Msg("selfplay-stopped")
		os.Exit(1)
	}
}
