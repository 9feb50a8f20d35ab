package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gitlab.com/dirk.krummacker/address-book/internal/addressbook"
	"gitlab.com/dirk.krummacker/address-book/internal/config"
	"gitlab.com/dirk.krummacker/address-book/internal/logger"
	"gitlab.com/dirk.krummacker/address-book/internal/service"
	"gitlab.com/dirk.krummacker/address-book/internal/storage"
)

// Usage example on the command line:
// > PORT=8080 DBHOST=localhost DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
//
// Without DBHOST the address book lives in memory only.
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
	log := logger.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	book := addressbook.New()
	var store service.Snapshotter
	if cfg.PersistenceEnabled() {
		sqlDB, err := storage.CreateDatabase(cfg.DBUser, cfg.DBPassword, cfg.DBHost)
		if err != nil {
			return 1, err
		}
		defer sqlDB.Close()
		s := storage.New(sqlDB)
		records, err := s.Load(context.Background())
		if err != nil {
			return 1, fmt.Errorf("loading address book: %w", err)
		}
		for _, r := range records {
			book.AddRecord(r)
		}
		log.Info("address book loaded", "contacts", book.Len(), "host", cfg.DBHost)
		store = s
	} else {
		log.Warn("DBHOST not set, contacts are kept in memory only")
	}

	service.SetupAddressBook(book, store, log)
	router := service.SetupHttpRouter(cfg.RequestLogging())
	log.Info("starting address book service", "port", cfg.Port)
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		return 1, fmt.Errorf("serving HTTP: %w", err)
	}
	return 0, nil
}
