package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/ethiery/isolation/automatic"
	"github.com/ethiery/isolation/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatal().Err(err).Msg("could not load config")
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.Debug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger

	opponents := automatic.DefaultOpponents()
	if roster := cfg.GetString(config.Roster); roster != "" {
		var err error
		opponents, err = automatic.LoadRoster(roster)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load roster")
		}
	}

	tourney := &automatic.Tournament{
		Benched:   automatic.SpecFromConfig(cfg, automatic.DefaultBenched().Name),
		Opponents: opponents,
		Matches:   cfg.GetInt(config.Matches),
		Width:     cfg.GetInt(config.BoardWidth),
		Height:    cfg.GetInt(config.BoardHeight),
		TimeLimit: cfg.GetDuration(config.TimeLimit),
		Threads:   cfg.GetInt(config.Threads),
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	results, err := tourney.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("tournament failed")
	}
	if err := results.WriteReport(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("could not write report")
	}
}
