package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/NumberChiffre/SimpleLOBStream/internal/application/port"
	"github.com/NumberChiffre/SimpleLOBStream/internal/application/service"
	"github.com/NumberChiffre/SimpleLOBStream/internal/infrastructure/config"
	"github.com/NumberChiffre/SimpleLOBStream/internal/infrastructure/exchange/binance"
	"github.com/NumberChiffre/SimpleLOBStream/internal/infrastructure/logger"
	"github.com/NumberChiffre/SimpleLOBStream/internal/infrastructure/storage/redis"
	"github.com/NumberChiffre/SimpleLOBStream/internal/infrastructure/stream"
	"github.com/NumberChiffre/SimpleLOBStream/internal/interfaces/console"
)

func main() {
	logger.Setup("")

	configPath := flag.String("config", "config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.Setup(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink port.Sink
	if cfg.Redis.Enabled {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable")
		}
		defer rdb.Close()
		sink = redis.New(rdb, cfg.Redis.KeyPrefix, time.Duration(cfg.Redis.TTLMin)*time.Minute)
	} else {
		log.Warn().Msg("redis disabled by config, publishing to log only")
		sink = console.NewSink()
	}

	endpoints := binance.Endpoints{
		SpotRest: cfg.Binance.SpotRestURL,
		PerpRest: cfg.Binance.PerpRestURL,
		SpotWS:   cfg.Binance.SpotWsURL,
		PerpWS:   cfg.Binance.PerpWsURL,
	}
	snapshots := binance.NewClient(endpoints)
	publisher := service.NewPublisher(sink)
	dialer := stream.NewWSDialer()
	registry := stream.NewRegistry()

	for _, symbol := range cfg.Symbols.List {
		registry.Start(ctx, stream.NewSession(stream.SessionDeps{
			Symbol:     symbol,
			Endpoints:  endpoints,
			Dialer:     dialer,
			Snapshots:  snapshots,
			Handler:    publisher.Handle,
			DepthLimit: cfg.Binance.DepthLimit,
			Pace:       time.Duration(cfg.App.PaceMs) * time.Millisecond,
		}))
	}

	log.Info().
		Str("config", *configPath).
		Int("symbols", len(cfg.Symbols.List)).
		Msg("lobstream started")

	<-ctx.Done()
	registry.Shutdown()
}
