package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/dealsift/dealsift/internal/cli"
)

func main() {
	log.SetLevel(log.InfoLevel)

	// Optional .env for local credentials; absence is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(cli.FormatError(err))
		os.Exit(1)
	}
}
