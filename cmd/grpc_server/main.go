package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/mitchelldurbincs/spreadstarts/internal/config"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/events"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/spreadstarts/internal/grpc/rebalanceserver"
	"github.com/mitchelldurbincs/spreadstarts/internal/logging"
	"github.com/mitchelldurbincs/spreadstarts/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("APP_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}
	cfg := config.Get()

	if *port == -1 {
		*port = cfg.Server.Port
	}
	if *host == "" {
		*host = cfg.Server.Host
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	if !*enableReflection {
		*enableReflection = cfg.Server.EnableReflection
	}

	logger := logging.Setup(*logLevel, cfg.Logging.Format)

	config.WatchConfig(func() {
		zerolog.SetGlobalLevel(logging.ParseLevel(config.Get().Logging.Level))
		log.Info().Str("file", config.ConfigFilePath()).Msg("Config reloaded")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open run store")
	}
	if recorder != nil {
		defer recorder.Close()
	}

	bus := events.NewEventBus(logger)
	bus.Subscribe(subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.DebugLevel))

	log.Info().
		Int("port", *port).
		Str("host", *host).
		Int("max_participants", cfg.Spread.MaxParticipants).
		Str("store", cfg.Store.Driver).
		Msg("Starting gRPC rebalance server")

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		rebalanceserver.LoggingInterceptor(logger),
		rebalanceserver.RecoveryInterceptor(logger),
	))

	srv := rebalanceserver.NewServer(rebalanceserver.Options{
		MaxParticipants: cfg.Spread.MaxParticipants,
		MinHumans:       cfg.Spread.MinHumans,
		Recorder:        recorder,
		Publisher:       bus,
		Logger:          logger,
	})
	healthServer := rebalanceserver.Register(grpcServer, srv, *enableReflection)
	if *enableReflection {
		log.Info().Msg("gRPC reflection enabled")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(rebalanceserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(cfg.Server.GracefulShutdownDelay) * time.Second)

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		cancel()
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
}
