package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/havelock/pairbook/config"
	"github.com/havelock/pairbook/pkg/ledger"
	"github.com/havelock/pairbook/pkg/logging"
	"github.com/havelock/pairbook/pkg/market"
	"github.com/havelock/pairbook/pkg/market/depth"
	fixgateway "github.com/havelock/pairbook/pkg/market/fix"
	riskrule "github.com/havelock/pairbook/pkg/market/riskrule"
	"github.com/havelock/pairbook/pkg/market/stream"
	"github.com/havelock/pairbook/pkg/metrics"

	redis_wrapper "github.com/havelock/pairbook/pkg/infra/redis"
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

	go func() {
		// pprof
		_ = http.ListenAndServe("localhost:6060", nil)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	memLedger := ledger.NewMemLedger()
	for _, acc := range cfg.Ledger {
		amount, err := decimal.NewFromString(acc.Amount)
		if err != nil {
			zap.S().Fatalw("bad ledger seed amount", "account", acc.Account, "amount", acc.Amount)
		}
		switch acc.Asset {
		case "base":
			memLedger.Deposit(acc.Account, amount, decimal.Zero)
		case "quote":
			memLedger.Deposit(acc.Account, decimal.Zero, amount)
		default:
			zap.S().Fatalw("unknown ledger asset", "asset", acc.Asset)
		}
	}

	fixGateway := fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
		ConfigFilepath: cfg.Fix.ConfigFilepath,
	})

	m := market.New(market.Config{
		Symbol: cfg.Market.Symbol,
		Depth:  cfg.Market.Depth,
	}, fixGateway, memLedger)

	if cfg.Market.TickSizeFile != "" {
		rule, err := riskrule.NewTickSizeRuleFromFile(cfg.Market.TickSizeFile)
		if err != nil {
			zap.S().Fatalw("load tick size rule failed", "err", err)
		}
		m.WithRules(rule)
	}
	if cfg.Market.PriceCeil > 0 {
		band := riskrule.NewPriceBandRule()
		band.SetBand(cfg.Market.Symbol, cfg.Market.PriceFloor, cfg.Market.PriceCeil)
		m.WithRules(band)
	}

	if cfg.Nats != nil && cfg.Nats.URL != "" {
		publisher, err := stream.NewJetStreamPublisher(cfg.Nats.URL)
		if err != nil {
			zap.S().Fatalw("connect jetstream failed", "err", err)
		}
		m.WithPublisher(publisher)
	}

	if cfg.Redis != nil && cfg.Redis.ConnectionURL != "" {
		redisClient, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			zap.S().Fatalw("connect redis failed", "err", err)
		}
		m.WithDepthCache(depth.NewCache(redisClient))
	}

	stats := metrics.New("pairbook")
	m.WithMetrics(stats)
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				zap.S().Warnw("metrics server stopped", "err", err)
			}
		}()
	}

	fixGateway.AddMarketInstance(m)
	if err := m.Start(ctx); err != nil {
		zap.S().Fatalw("start market failed", "err", err)
	}
	m.StartCleaner(time.Hour)
	zap.S().Infow("pairbookd started", "symbol", cfg.Market.Symbol)

	<-sigs
	zap.S().Info("shutting down")

	fixGateway.Stop()
	m.Stop()
	cancel()
}
