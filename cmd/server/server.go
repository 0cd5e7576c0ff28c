package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"exchangecore/internal/engine"
	"exchangecore/internal/fixedpoint"
	netpkg "exchangecore/internal/net"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

func main() {
	address := flag.String("address", "0.0.0.0", "listen address")
	port := flag.Int("port", 9001, "listen port")
	symbolsFlag := flag.String("symbols", "AAPL", "comma-separated list of symbols to trade")
	priceExp := flag.Int("price-scale", 2, "price decimal places (10^-n)")
	qtyExp := flag.Int("qty-scale", 8, "quantity decimal places (10^-n)")
	flag.Parse()

	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	priceScale, err := fixedpoint.NewScale(*priceExp)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid price scale")
	}
	qtyScale, err := fixedpoint.NewScale(*qtyExp)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid quantity scale")
	}

	var configs []engine.SymbolConfig
	for _, sym := range strings.Split(*symbolsFlag, ",") {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		configs = append(configs, engine.SymbolConfig{Symbol: sym, PriceScale: priceScale, QtyScale: qtyScale})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	t, ctx := tomb.WithContext(ctx)

	eng, err := engine.New(t, logger, configs...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start engine")
	}

	srv := netpkg.New(*address, *port, eng, logger)
	t.Go(func() error { return srv.Run(ctx) })

	if err := t.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}
