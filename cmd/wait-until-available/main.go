package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"gitlab.com/dirk.krummacker/address-book/internal/client"
	"gitlab.com/dirk.krummacker/address-book/internal/config"
	"gitlab.com/dirk.krummacker/address-book/internal/logger"
)

// Polls the service at SERVICE_URL every five seconds until it answers.
func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

func run() (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return 2, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.NewText(os.Stdout, cfg.LogLevel)
	c := client.New(cfg.ServiceURL, &http.Client{Timeout: 5 * time.Second})
	totalWaitTime := 0
	for {
		err := c.Ping(context.Background())
		if err == nil {
			log.Info("service is available", "url", cfg.ServiceURL)
			return 0, nil
		}
		totalWaitTime += 5
		log.Info("waiting for service", "url", cfg.ServiceURL, "seconds", totalWaitTime, "error", err)
		time.Sleep(5 * time.Second)
	}
}
