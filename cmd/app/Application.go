package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"monepiceriz/internal/app"
	"monepiceriz/internal/cache"
	"monepiceriz/internal/config"
	"monepiceriz/internal/db/conn"
	"monepiceriz/internal/db/repository"
	"monepiceriz/internal/handler"
	"monepiceriz/internal/kafka"
	"monepiceriz/internal/kv"
	"monepiceriz/internal/location"
	"monepiceriz/internal/selection"
	"monepiceriz/internal/service"
	"monepiceriz/internal/store"
)

type Application struct {
	addr     string
	srv      *app.Server
	consumer *kafka.CatalogConsumer
	producer *kafka.CatalogProducer
	service  *service.ProductService
	cache    *cache.ProductCache
	storage  *kv.Redis
}

func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	// connexion à la base du catalogue
	dbConn, err := conn.Connection(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connexion à la base: %w", err)
	}

	// stockage durable des paniers et des sélections
	storage, err := kv.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("connexion à Redis: %w", err)
	}

	// assemblage des couches
	productCache := cache.NewProductCache(5*time.Minute, 1*time.Minute)
	productRepo := repository.NewProductRepository(dbConn)
	productService := service.NewProductService(productRepo, productCache)
	cartService := service.NewCartService(storage, productService, cfg.Fees.Delivery, cfg.Fees.Preparation)

	resolver := store.NewResolver()
	hub := location.NewHub()
	selections := selection.NewManager(resolver, storage, hub.ProviderFor, selectionConfig(cfg.Selection))

	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	storeHandler := handler.NewStoreHandler(resolver)
	phoneHandler := handler.NewPhoneHandler()
	selectionHandler := handler.NewSelectionHandler(selections, hub, resolver)

	router := handler.NewRouter(productHandler, cartHandler, storeHandler, phoneHandler, selectionHandler)
	srv := app.NewServer(router)

	if err = kafka.EnsureTopicExists(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic); err != nil {
		return nil, fmt.Errorf("création du topic Kafka: %w", err)
	}

	producer, err := kafka.NewProducer(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic)
	if err != nil {
		return nil, fmt.Errorf("création du producer Kafka: %w", err)
	}

	consumer, err := kafka.NewCatalogConsumer(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic, productService.HandleCatalogMessage)
	if err != nil {
		return nil, fmt.Errorf("création du consumer Kafka: %w", err)
	}

	return &Application{
		addr:     cfg.HTTP.Addr,
		srv:      srv,
		consumer: consumer,
		producer: producer,
		service:  productService,
		cache:    productCache,
		storage:  storage,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	if err := a.service.ReCache(ctx); err != nil {
		log.Printf("Impossible de restaurer le cache depuis la base: %v", err)
	}

	go func() {
		if err := a.cache.GC(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("GC du cache produits arrêté: %v", err)
		}
	}()

	go func() {
		log.Println("Démarrage du consumer catalogue...")
		if err := a.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Consumer arrêté en erreur: %v", err)
		}
	}()

	go func() {
		log.Printf("Démarrage du serveur HTTP sur %s", a.addr)
		if err := a.srv.Run(a.addr); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Println("Serveur HTTP arrêté proprement")
			} else {
				log.Fatalf("Erreur fatale du serveur: %v", err)
			}
		}
	}()

	// publication d'un produit de démonstration pour amorcer un
	// environnement vide
	if err := a.producer.Send(); err != nil {
		log.Printf("Impossible de publier le produit de démonstration: %v", err)
	}

	<-ctx.Done()
	log.Println("Signal d'arrêt reçu (graceful shutdown)...")

	// 5 secondes pour finir les requêtes en cours
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.Shutdown(shutdownCtx)

	return nil
}

func (a *Application) Shutdown(ctx context.Context) {
	if err := a.srv.Stop(ctx); err != nil {
		log.Printf("Erreur à l'arrêt du serveur HTTP: %v", err)
	}
	if err := a.consumer.Close(); err != nil {
		log.Printf("Erreur à l'arrêt du consumer Kafka: %v", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("Erreur à l'arrêt du producer Kafka: %v", err)
	}
	a.cache.Stop()
	if err := a.storage.Close(); err != nil {
		log.Printf("Erreur à la fermeture de Redis: %v", err)
	}
}

func selectionConfig(c config.SelectionConfig) selection.Config {
	cfg := selection.DefaultConfig()
	if c.CacheMinutes > 0 {
		cfg.CacheDuration = time.Duration(c.CacheMinutes) * time.Minute
	}
	if c.MovementThresholdKm > 0 {
		cfg.MovementThresholdKm = c.MovementThresholdKm
	}
	if c.SignificantDistanceKm > 0 {
		cfg.SignificantDistanceKm = c.SignificantDistanceKm
	}
	if c.LocationTimeoutSeconds > 0 {
		cfg.LocationTimeout = time.Duration(c.LocationTimeoutSeconds) * time.Second
	}
	if c.LocationMaxAgeSeconds > 0 {
		cfg.LocationMaxAge = time.Duration(c.LocationMaxAgeSeconds) * time.Second
	}
	if c.CoarseMaxAgeSeconds > 0 {
		cfg.CoarseMaxAge = time.Duration(c.CoarseMaxAgeSeconds) * time.Second
	}
	return cfg
}
