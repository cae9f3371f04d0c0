package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/edgedelta/log-error-notifier/resource"
)

const logGroup = "/aws/lambda/api"

var logGroupARN = resource.LogGroupARN("123456789012", "us-west-2", logGroup)

type mockResourceClient struct {
	tags  map[string]map[string]string
	err   error
	calls int
}

func (m *mockResourceClient) GetResourceTags(ctx context.Context, resourceARNs ...string) (map[string]map[string]string, error) {
	m.calls++
	return m.tags, m.err
}

func TestLogGroupTags(t *testing.T) {
	tests := []struct {
		desc           string
		resourceClient *mockResourceClient
		wantTags       map[string]string
		wantCalls      int
	}{
		{
			desc: "got tags from resources",
			resourceClient: &mockResourceClient{
				tags: map[string]map[string]string{
					logGroupARN: {"team": "payments"},
				},
			},
			wantTags:  map[string]string{"team": "payments"},
			wantCalls: 1,
		},
		{
			desc: "error while getting tags is retried on next lookup",
			resourceClient: &mockResourceClient{
				err: errors.New("throttled"),
			},
			wantTags:  nil,
			wantCalls: 2,
		},
		{
			desc: "got empty tags from resources",
			resourceClient: &mockResourceClient{
				tags: map[string]map[string]string{},
			},
			wantTags:  map[string]string{},
			wantCalls: 1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			enricher := NewEnricher(tc.resourceClient, "123456789012", "us-west-2")

			for i := 0; i < 2; i++ {
				got := enricher.LogGroupTags(context.TODO(), logGroup)
				if diff := cmp.Diff(tc.wantTags, got); diff != "" {
					t.Errorf("Tags mismatch (-want +got):\n%s", diff)
				}
			}
			assert.Equal(t, tc.wantCalls, tc.resourceClient.calls)
		})
	}
}

func TestNoOpTagger(t *testing.T) {
	assert.Nil(t, NewNoOpTagger().LogGroupTags(context.TODO(), logGroup))
}
