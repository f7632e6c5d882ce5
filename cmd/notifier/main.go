package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/adityarama/pasarkampus/internal/config"
	kafkax "github.com/adityarama/pasarkampus/internal/kafka"
	"github.com/adityarama/pasarkampus/internal/notifier"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	svc := &notifier.Service{
		Redis:       rdb,
		Sink:        notifier.LogSink{Logger: logger},
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), 4)

	topics := []string{
		orders.TopicOrderPlaced,
		orders.TopicOrderStatusChanged,
		orders.TopicOrderCancelled,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		topic := topic
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		g.Go(func() error {
			log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, topic, workers)
			return cons.Start(gctx, svc.Handle)
		})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Println("shutting down notifier...")
		cancel()
	case <-gctx.Done():
	}

	if err := g.Wait(); err != nil {
		log.Printf("consumer exit: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
