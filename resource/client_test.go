package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTaggingAPI struct {
	out   *resourcegroupstaggingapi.GetResourcesOutput
	err   error
	input *resourcegroupstaggingapi.GetResourcesInput
}

func (m *mockTaggingAPI) GetResources(ctx context.Context, params *resourcegroupstaggingapi.GetResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.GetResourcesOutput, error) {
	m.input = params
	return m.out, m.err
}

func TestGetResourceTags(t *testing.T) {
	arn := LogGroupARN("123456789012", "eu-west-1", "/aws/lambda/api")
	api := &mockTaggingAPI{out: &resourcegroupstaggingapi.GetResourcesOutput{
		ResourceTagMappingList: []types.ResourceTagMapping{
			{
				ResourceARN: aws.String(arn),
				Tags: []types.Tag{
					{Key: aws.String("team"), Value: aws.String("payments")},
					{Key: aws.String("env"), Value: aws.String("prod")},
				},
			},
		},
	}}

	got, err := NewClient(api).GetResourceTags(context.Background(), arn)
	require.NoError(t, err)

	want := map[string]map[string]string{
		arn: {"team": "payments", "env": "prod"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{arn}, api.input.ResourceARNList)
}

func TestGetResourceTagsError(t *testing.T) {
	api := &mockTaggingAPI{err: errors.New("throttled")}
	_, err := NewClient(api).GetResourceTags(context.Background(), "arn")
	assert.EqualError(t, err, "throttled")
}

func TestLogGroupARN(t *testing.T) {
	assert.Equal(t, "arn:aws:logs:eu-west-1:123456789012:log-group:/aws/lambda/api", LogGroupARN("123456789012", "eu-west-1", "/aws/lambda/api"))
}
