package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"

	"github.com/edgedelta/log-error-notifier/batch"
	"github.com/edgedelta/log-error-notifier/cfg"
	"github.com/edgedelta/log-error-notifier/console"
	"github.com/edgedelta/log-error-notifier/cooldown"
	"github.com/edgedelta/log-error-notifier/enrich"
	"github.com/edgedelta/log-error-notifier/notify"
	"github.com/edgedelta/log-error-notifier/resource"
	"github.com/edgedelta/log-error-notifier/secret"
	"github.com/edgedelta/log-error-notifier/summary"
)

type Sender interface {
	Send(ctx context.Context, msg notify.Message) error
}

type Handler struct {
	logGroup string
	links    *console.LinkBuilder
	state    *cooldown.State
	sender   Sender
	tagger   enrich.Tagger
	logger   zerolog.Logger
	now      func() time.Time
}

type Option func(*Handler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithTagger enables log group tags in notifications.
func WithTagger(t enrich.Tagger) Option {
	return func(h *Handler) { h.tagger = t }
}

// WithLogGroup pins the log group shown in notifications instead of the one
// reported by each batch.
func WithLogGroup(logGroup string) Option {
	return func(h *Handler) { h.logGroup = logGroup }
}

func New(links *console.LinkBuilder, state *cooldown.State, sender Sender, logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		links:  links,
		state:  state,
		sender: sender,
		tagger: enrich.NewNoOpTagger(),
		logger: logger,
		now:    time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// NewFromConfig loads the webhook credentials and wires every component. Any
// error is a configuration error and must stop the process.
func NewFromConfig(ctx context.Context, config *cfg.Config, logger zerolog.Logger) (*Handler, error) {
	links, err := console.NewLinkBuilder(config.AccountID, config.Region, config.PortalSubdomain)
	if err != nil {
		return nil, err
	}

	secretsCl, err := secret.NewAWSClient(ctx)
	if err != nil {
		return nil, err
	}
	creds, err := secret.LoadCredentials(ctx, secretsCl, config.SecretID)
	if err != nil {
		return nil, err
	}
	notifier, err := notify.NewNotifier(creds)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithLogGroup(config.LogGroup)}
	if config.ForwardLogGroupTags {
		resourceCl, err := resource.NewAWSClient(ctx, config.Region)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithTagger(enrich.NewEnricher(resourceCl, config.AccountID, config.Region)))
	}

	return New(links, cooldown.NewState(config.ReportThreshold), notifier, logger, opts...), nil
}

// Handle processes one subscription batch. Decode and delivery failures are
// returned so the invocation is reported as failed.
func (h *Handler) Handle(ctx context.Context, logsEvent events.CloudwatchLogsEvent) (err error) {
	now := h.now()
	logger := h.logger.With().Logger()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With().Str("aws_request_id", lc.AwsRequestID).Logger()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Recovering from panic in Handle")
			err = fmt.Errorf("panic in Handle: %v", r)
		}
	}()

	data, err := batch.Decode(logsEvent.AWSLogs.Data)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse logs event")
		return err
	}

	logGroup := h.logGroup
	if logGroup == "" {
		logGroup = data.LogGroup
	}
	logger = logger.With().Str("log_group", logGroup).Logger()
	ctx = logger.WithContext(ctx)

	if !h.state.Allow(data, now) {
		logger.Debug().
			Str("message_type", data.MessageType).
			Int("events", len(data.LogEvents)).
			Time("last_sent_at", h.state.LastSentAt()).
			Msg("Skipping notification")
		return nil
	}

	msg := notify.NewMessage(
		h.links.Links(logGroup),
		logGroup,
		summary.Summarize(data.LogEvents[0].Message),
		h.tagger.LogGroupTags(ctx, logGroup),
	)

	// blocks until the webhook answers or the context deadline
	if err := h.sender.Send(ctx, msg); err != nil {
		logger.Error().Err(err).Msg("Failed to send notification")
		return fmt.Errorf("failed to send notification, err: %w", err)
	}

	h.state.MarkSent(now)
	logger.Info().Int("events", len(data.LogEvents)).Msg("Successfully sent notification")
	return nil
}
