package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"

	"github.com/edgedelta/log-error-notifier/cfg"
	"github.com/edgedelta/log-error-notifier/handler"
)

var (
	logger zerolog.Logger
	h      *handler.Handler
)

type HandlerFn func(context.Context, events.CloudwatchLogsEvent) error

func withGracefulShutdown(handler HandlerFn, gracePeriod time.Duration) HandlerFn {
	return func(ctx context.Context, logsEvent events.CloudwatchLogsEvent) error {
		deadline, ok := ctx.Deadline()
		if !ok {
			return handler(ctx, logsEvent)
		}
		shorterDeadline := deadline.Add(-gracePeriod)
		graceCtx, cancel := context.WithDeadline(ctx, shorterDeadline)
		defer cancel()
		return handler(graceCtx, logsEvent)
	}
}

func main() {
	lambda.Start(withGracefulShutdown(h.Handle, time.Second*5))
}

func init() {
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	config, err := cfg.GetConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get config from environment variables")
	}
	logger = logger.Level(config.LogLevel)

	h, err = handler.NewFromConfig(context.Background(), config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize notifier")
	}
}
