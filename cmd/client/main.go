package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"gitlab.com/dirk.krummacker/address-book/internal/client"
	"gitlab.com/dirk.krummacker/address-book/internal/config"
)

// Usage examples on the command line:
// > go run main.go add "Erika Mustermann" 0815471100
// > go run main.go -url=http://localhost:8080 birthdays 10.06.2024
func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 2
	}
	urlPtr := flag.String("url", cfg.ServiceURL, "the base URL of the address book service")
	timeoutPtr := flag.Duration("timeout", 10*time.Second, "the timeout of every request")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <command> [arguments]\n\nCommands:\n%s\n\nFlags:\n",
			os.Args[0], client.Usage())
		flag.PrintDefaults()
	}
	flag.Parse()

	c := client.New(*urlPtr, &http.Client{Timeout: *timeoutPtr})
	err = client.Run(context.Background(), c, flag.Args(), os.Stdout)
	var usageErr *client.UsageError
	switch {
	case errors.As(err, &usageErr):
		fmt.Fprintln(os.Stderr, err)
		return 2
	case err != nil:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
