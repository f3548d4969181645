package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shanehull/shopfinder/internal/config"
	"github.com/shanehull/shopfinder/internal/httpapi"
	"github.com/shanehull/shopfinder/internal/logging"
	"github.com/shanehull/shopfinder/internal/search"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	host := flag.String("host", "0.0.0.0", "Interface to listen on")
	debug := flag.Bool("debug", false, "Enable debug logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(os.Stdout, logging.Options{
		Level:      cfg.Log.Level,
		Debug:      *debug,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	provider, err := search.NewDuckDuckGo(logger.With("component", "search"), cfg.SearchOptions())
	if err != nil {
		logger.Error("Search provider setup failed", "err", err)
		os.Exit(1)
	}

	handler := httpapi.NewHandler(httpapi.Deps{
		Logger:          logger,
		Provider:        provider,
		Variants:        cfg.Collect.Variants,
		MaxResults:      cfg.Collect.MaxResults,
		RequireLocation: cfg.Collect.RequireLocation,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", *host, cfg.Server.Port)
	if err := httpapi.Serve(ctx, addr, handler, logger); err != nil {
		logger.Error("Server failed", "err", err)
		os.Exit(1)
	}
}
