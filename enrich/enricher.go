package enrich

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edgedelta/log-error-notifier/resource"
)

// Tagger resolves the tags to show next to a log group in a notification.
type Tagger interface {
	LogGroupTags(ctx context.Context, logGroup string) map[string]string
}

// Enricher looks up log group tags through the tagging API. Results,
// including empty ones, are cached for the lifetime of the process so a log
// group costs at most one successful lookup.
type Enricher struct {
	resourceCl resource.Client
	accountID  string
	region     string

	mu                     sync.Mutex
	resourceARNToTagsCache map[string]map[string]string
}

func NewEnricher(resourceCl resource.Client, accountID, region string) *Enricher {
	return &Enricher{
		resourceCl:             resourceCl,
		accountID:              accountID,
		region:                 region,
		resourceARNToTagsCache: make(map[string]map[string]string),
	}
}

// LogGroupTags never fails; lookup errors are logged and yield no tags.
func (e *Enricher) LogGroupTags(ctx context.Context, logGroup string) map[string]string {
	arn := resource.LogGroupARN(e.accountID, e.region, logGroup)

	e.mu.Lock()
	defer e.mu.Unlock()
	if m, ok := e.resourceARNToTagsCache[arn]; ok {
		return m
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("arn", arn).Msg("Getting resource tags")
	tagsMap, err := e.resourceCl.GetResourceTags(ctx, arn)
	if err != nil {
		logger.Warn().Err(err).Str("arn", arn).Msg("Failed to get resource tags")
		return nil
	}

	tags := tagsMap[arn]
	if len(tags) == 0 {
		logger.Debug().Str("arn", arn).Msg("Failed to find tags")
		tags = map[string]string{}
	}
	e.resourceARNToTagsCache[arn] = tags
	return tags
}

type NoOpTagger struct{}

func NewNoOpTagger() *NoOpTagger {
	return &NoOpTagger{}
}

func (NoOpTagger) LogGroupTags(ctx context.Context, logGroup string) map[string]string {
	return nil
}
