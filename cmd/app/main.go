package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"monepiceriz/internal/config"
	"monepiceriz/internal/trace"
)

func main() {
	// contexte racine, annulé sur SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Chargement de la configuration: %v", err)
	}

	tp, err := trace.InitTracer(ctx)
	if err != nil {
		log.Fatalf("Initialisation du tracer: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Printf("Arrêt du tracer: %v", err)
		}
	}()

	application, err := NewApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("Initialisation de l'application: %v", err)
	}
	if err = application.Run(ctx); err != nil {
		log.Fatalf("Exécution de l'application: %v", err)
	}
	log.Println("Service arrêté proprement")
}
