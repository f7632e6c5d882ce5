package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/adityarama/pasarkampus/internal/config"
	"github.com/adityarama/pasarkampus/internal/httpx"
	kafkax "github.com/adityarama/pasarkampus/internal/kafka"
	"github.com/adityarama/pasarkampus/internal/marketplace"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/postgres"
	"github.com/adityarama/pasarkampus/internal/redisx"
	"github.com/adityarama/pasarkampus/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &marketplace.Service{
		Clock: marketplace.SystemClock{},
		Name:  cfg.ServiceName,
	}

	// Stores: postgres when a DSN is reachable, in-memory otherwise
	// (local development without docker).
	if os.Getenv("IN_MEMORY") == "1" {
		mem := store.NewMemory()
		svc.Products = mem.Products()
		svc.UMKMs = mem.UMKMs()
		svc.Orders = mem.Orders()
		svc.Promos = mem.Promos()
		svc.Reviews = mem.Reviews()
		log.Println("using in-memory stores")
	} else {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		svc.Products = &postgres.ProductStore{DB: db}
		svc.UMKMs = &postgres.UMKMStore{DB: db}
		svc.Orders = &postgres.OrderStore{DB: db}
		svc.Promos = &postgres.PromoStore{DB: db}
		svc.Reviews = &postgres.ReviewStore{DB: db}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per lifecycle topic
	producers := kafkax.TopicPublishers{
		orders.TopicOrderPlaced:        kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024),
		orders.TopicOrderStatusChanged: kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024),
		orders.TopicOrderCancelled:     kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCancelled, 1024),
	}
	producers.Start(ctx)
	svc.Events = producers

	// HTTP
	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Service: svc, Redis: rdb}).Register(router)
	(&httpx.UMKMHandler{Service: svc}).Register(router)
	(&httpx.ProductsHandler{Service: svc}).Register(router)
	(&httpx.PromosHandler{Service: svc}).Register(router)
	(&httpx.ReviewsHandler{Service: svc}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	producers.Shutdown() // flush & close writers
}
