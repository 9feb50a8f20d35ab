package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"gitlab.com/dirk.krummacker/address-book/internal/config"
	"gitlab.com/dirk.krummacker/address-book/internal/logger"
	"gitlab.com/dirk.krummacker/address-book/internal/storage"
)

// Usage example on the command line:
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../scripts/schema.sql
func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

func run() (int, error) {
	filePtr := flag.String("file", "schema.sql", "the sql file to execute")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return 2, fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.PersistenceEnabled() {
		return 2, errors.New("DBHOST is not set")
	}
	log := logger.NewText(os.Stderr, cfg.LogLevel)

	sqlDB, err := storage.CreateDatabase(cfg.DBUser, cfg.DBPassword, cfg.DBHost)
	if err != nil {
		return 1, err
	}
	db := storage.New(sqlDB).DB()
	defer db.Close()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		return 1, fmt.Errorf("could not open file: %w", err)
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	statements := 0
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			if _, err := db.Exec(builder.String()); err != nil {
				return 1, fmt.Errorf("statement %d failed: %w", statements+1, err)
			}
			statements++
			builder = strings.Builder{}
		}
	}
	if err := fileScanner.Err(); err != nil {
		return 1, fmt.Errorf("could not read file: %w", err)
	}
	log.Info("migration finished", "file", *filePtr, "statements", statements)
	return 0, nil
}
