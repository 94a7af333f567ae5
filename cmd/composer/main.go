package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	composercmd "github.com/louisbranch/encounterforge/internal/cmd/composer"
)

// main composes one encounter and prints the localized report.
func main() {
	cfg, err := composercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[COMPOSER] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := composercmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("failed to compose encounter: %v", err)
	}
}
