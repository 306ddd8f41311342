package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"myhttpd/config"
	"myhttpd/logging"
	"myhttpd/server"
	"myhttpd/telemetry"
)

func main() {
	flags, cli, err := config.ParseArgs(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if cli.Help {
		config.Usage(os.Stdout, flags)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(flags, cli.ConfigFile)
	if err != nil {
		logging.GetLogger().Fatalf("Failed to load config: %v", err)
	}

	if cfg.Debug {
		logging.InitLogger(logrus.DebugLevel)
	} else {
		logging.InitLogger(logrus.InfoLevel)
	}
	log := logging.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Failed to set up telemetry: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Warnf("telemetry shutdown: %v", err)
		}
	}()

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
	if err := srv.Start(ctx); err != nil {
		log.Errorf("Server stopped with error: %v", err)
	}
}
