// ticketctl is the CLI entry point for the ticket acquisition core.
//
// Usage:
//
//	ticketctl get <ticket-reference>   fetch and print a normalized ticket as JSON
//	ticketctl serve                    run the read-only introspection HTTP server
//
// Grounded on the teacher's cmd/server/main.go: structured zerolog
// setup, signal-driven graceful shutdown for serve, fatal-on-
// construction-error for both subcommands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/amiad5298/ingot/internal/config"
	"github.com/amiad5298/ingot/internal/ticketservice"
	"github.com/amiad5298/ingot/pkg/server"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()

	switch os.Args[1] {
	case "get":
		runGet(cfg, os.Args[2:])
	case "serve":
		runServe(cfg)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ticketctl get <ticket-reference> | ticketctl serve")
}

func runGet(cfg *config.Config, args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}

	svc, err := ticketservice.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct ticket service")
	}
	defer svc.Close(context.Background())

	ticket, err := svc.GetTicket(context.Background(), args[0], ticketservice.Options{})
	if err != nil {
		log.Fatal().Err(err).Str("input", args[0]).Msg("failed to fetch ticket")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ticket.ToDict()); err != nil {
		log.Fatal().Err(err).Msg("failed to encode ticket")
	}
}

func runServe(cfg *config.Config) {
	svc, err := ticketservice.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct ticket service")
	}
	defer svc.Close(context.Background())

	srv := server.New(cfg, svc.Registry(), svc.Cache())

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.Handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", cfg.Port).Msg("ticketctl introspection server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}
