// ABOUTME: Entry point for the LingoPop vocabulary trainer
// ABOUTME: Parses CLI flags, loads config, and starts the application
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GeorgeYL/LingoPop/internal/app"
	"github.com/GeorgeYL/LingoPop/internal/config"
	"github.com/GeorgeYL/LingoPop/internal/version"
)

var (
	logFile     = flag.String("log-file", "lingopop.log", "Log file path")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	// TUI owns the terminal, so logs go to a file
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()
	log.SetOutput(f)

	if err := config.LoadEnv(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.FromEnv(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Set LINGOPOP_API_KEY to your API key")
		os.Exit(1)
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Startup error: %v\n", err)
		os.Exit(1)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down", sig)
		application.Close()
	}()

	if err := application.Start(); err != nil {
		application.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	application.Close()
	log.Printf("Shutdown complete")
}
