package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/3-lines-studio/postpage"
	"github.com/3-lines-studio/postpage/internal/config"
	"github.com/3-lines-studio/postpage/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("POSTPAGE_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.Logging.Level, "json")
	if err != nil {
		slog.Error("failed to create logger", "error", err)
		os.Exit(1)
	}

	app, err := postpage.New(cfg, postpage.WithLogger(logger))
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer func() { _ = app.Stop() }()

	lambda.Start(app.LambdaHandler().Handle)
}
