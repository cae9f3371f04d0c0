// Command replay runs one CloudWatch Logs batch through the notifier outside
// of Lambda, using the same environment configuration.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/edgedelta/log-error-notifier/batch"
	"github.com/edgedelta/log-error-notifier/cfg"
	"github.com/edgedelta/log-error-notifier/handler"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: replay (-file batch.json | -message <log line> [-group <log group>])")
	fmt.Fprintln(os.Stderr, "Environment: same variables as the Lambda function; AWS credentials from default sources.")
	os.Exit(2)
}

func main() {
	file := flag.String("file", "", "decoded CloudWatch Logs batch (JSON)")
	message := flag.String("message", "", "single log line to send as a DATA_MESSAGE batch")
	group := flag.String("group", "/replay", "log group of the -message batch")
	flag.Parse()

	b, err := loadBatch(*file, *message, *group)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	config, err := cfg.GetConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get config from environment variables")
	}
	logger = logger.Level(config.LogLevel)

	ctx := context.Background()
	h, err := handler.NewFromConfig(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize notifier")
	}

	ev, err := batch.Event(b)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to encode batch")
	}
	if err := h.Handle(ctx, ev); err != nil {
		logger.Fatal().Err(err).Msg("Replay failed")
	}
}

func loadBatch(file, message, group string) (batch.Batch, error) {
	switch {
	case file != "" && message != "":
		return batch.Batch{}, fmt.Errorf("error: -file and -message are mutually exclusive")
	case file != "":
		raw, err := os.ReadFile(file)
		if err != nil {
			return batch.Batch{}, fmt.Errorf("failed to read %s: %w", file, err)
		}
		var b batch.Batch
		if err := json.Unmarshal(raw, &b); err != nil {
			return batch.Batch{}, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		return b, nil
	case message != "":
		now := time.Now()
		return batch.Batch{
			MessageType: batch.MessageTypeData,
			LogGroup:    group,
			LogStream:   "replay",
			LogEvents: []events.CloudwatchLogsLogEvent{
				{ID: fmt.Sprint(now.UnixNano()), Timestamp: now.UnixMilli(), Message: message},
			},
		}, nil
	default:
		return batch.Batch{}, fmt.Errorf("error: one of -file or -message is required")
	}
}
