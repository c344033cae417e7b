package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cityline/cityline_api/config"
	deps "github.com/cityline/cityline_api/internal/debs"
	api "github.com/cityline/cityline_api/internal/http/rest"
	smtp "github.com/cityline/cityline_api/util/email"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()
	deps := deps.New(cfg)

	mailer := smtp.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	a := &api.API{
		Config: cfg,
		Deps:   deps,
		Mailer: mailer,
		DB:     deps.Pool(),
	}

	go deps.WebSocket.Run()
	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		log.Fatal(a.Serve())
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")

	if err := a.Shutdown(); err != nil {
		log.Println("server shutdown error", err)
	}

	deps.Close()
	log.Println("Database connections closed.")
}
