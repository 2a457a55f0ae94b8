package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/havelock/pairbook/config"
	postgres_wrapper "github.com/havelock/pairbook/pkg/infra/postgres"
	"github.com/havelock/pairbook/pkg/logging"
	"github.com/havelock/pairbook/pkg/market/repo"
	"github.com/havelock/pairbook/pkg/market/worker"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	sync, err := logging.Init(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		zap.S().Fatalw("connect nats failed", "err", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		zap.S().Fatalw("jetstream context failed", "err", err)
	}

	db, err := postgres_wrapper.InitPostgres(cfg.MarketDB)
	if err != nil {
		zap.S().Fatalw("init db failed", "err", err)
	}

	w := worker.NewWorker(repo.NewRepo(db))
	go func() {
		if err := w.StartOrderEventConsumer(ctx, js, "pairbook_order_events"); err != nil && err != context.Canceled {
			zap.S().Errorw("order event consumer stopped", "err", err)
		}
	}()
	go func() {
		if err := w.StartTradeConsumer(ctx, js, "pairbook_trades"); err != nil && err != context.Canceled {
			zap.S().Errorw("trade consumer stopped", "err", err)
		}
	}()

	zap.S().Info("worker started")
	<-sigs
	zap.S().Info("shutting down")
	cancel()
}
