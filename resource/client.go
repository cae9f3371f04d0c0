package resource

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
)

type Client interface {
	GetResourceTags(ctx context.Context, resourceARNs ...string) (map[string]map[string]string, error)
}

// API is the subset of the tagging client used by DefaultClient.
type API interface {
	GetResources(ctx context.Context, params *resourcegroupstaggingapi.GetResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.GetResourcesOutput, error)
}

type DefaultClient struct {
	svc API
}

func NewAWSClient(ctx context.Context, region string) (Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config, err: %v", err)
	}

	return NewClient(resourcegroupstaggingapi.NewFromConfig(cfg)), nil
}

func NewClient(svc API) *DefaultClient {
	return &DefaultClient{svc: svc}
}

func (c *DefaultClient) GetResourceTags(ctx context.Context, resourceARNs ...string) (map[string]map[string]string, error) {
	input := &resourcegroupstaggingapi.GetResourcesInput{
		ResourceARNList: resourceARNs,
	}
	output, err := c.svc.GetResources(ctx, input)
	if err != nil {
		return nil, err
	}
	res := make(map[string]map[string]string)
	for _, m := range output.ResourceTagMappingList {
		tags := make(map[string]string)
		for _, t := range m.Tags {
			k := aws.ToString(t.Key)
			v := aws.ToString(t.Value)
			tags[k] = v
		}
		arn := aws.ToString(m.ResourceARN)
		res[arn] = tags
	}
	return res, nil
}

// LogGroupARN builds the tagging ARN of a CloudWatch Logs log group.
func LogGroupARN(accountID, region, logGroup string) string {
	return fmt.Sprintf("arn:aws:logs:%s:%s:log-group:%s", region, accountID, logGroup)
}
