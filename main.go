package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/classzip/pkg/cli"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
