package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/fishderby/bot"
	"github.com/domino14/fishderby/config"
	"github.com/domino14/fishderby/search"
	"github.com/domino14/fishderby/store"
)

func main() {
	// stdout may carry the game protocol; logs go to stderr.
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("fishbot-exiting")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	solver, err := search.NewSolverFromConfig(cfg)
	if err != nil {
		return err
	}
	var recorder store.Recorder
	if path := cfg.GetString(config.ConfigStorePath); path != "" {
		db, err := store.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()
		recorder = db
	}
	b := bot.NewBot(cfg, solver, recorder)
	log.Info().Str("provider", cfg.GetString(config.ConfigProvider)).
		Int("player", cfg.GetInt(config.ConfigPlayer)).
		Str("cache-policy", solver.CachePolicy().String()).
		Msg("fishbot-starting")

	g, ctx := errgroup.WithContext(ctx)
	switch p := cfg.GetString(config.ConfigProvider); p {
	case "stdio":
		g.Go(func() error {
			return b.Run(ctx, bot.NewStdioProvider(os.Stdin, os.Stdout))
		})
	case "websocket":
		ws, err := bot.DialWebsocket(ctx, cfg.GetString(config.ConfigWebsocketURL))
		if err != nil {
			return err
		}
		defer ws.Close()
		g.Go(func() error { return b.Run(ctx, ws) })
	case "nats":
		nc, err := connectNATS(ctx, cfg.GetString(config.ConfigNatsURL))
		if err != nil {
			return err
		}
		defer nc.Close()
		g.Go(func() error {
			return b.ServeNATS(ctx, nc, cfg.GetString(config.ConfigNatsSubject))
		})
	default:
		return fmt.Errorf("unknown provider %q", p)
	}
	return g.Wait()
}

func connectNATS(ctx context.Context, url string) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url, nats.Name("fishbot"))
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	return nc, err
}
