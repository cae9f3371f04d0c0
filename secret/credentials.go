package secret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ErrInvalidSecret is returned when the secret exists but its payload is not
// usable as webhook credentials.
var ErrInvalidSecret = errors.New("secret must be an object with endpointUrl and verificationToken")

// API is the subset of the Secrets Manager client used to read credentials.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Credentials of the incoming webhook. Loaded once and never mutated.
type Credentials struct {
	EndpointURL       string
	VerificationToken string
}

type payload struct {
	EndpointURL       *string `json:"endpointUrl"`
	VerificationToken *string `json:"verificationToken"`
}

// LoadCredentials fetches the secret identified by secretID and validates its
// JSON payload. It does not retry.
func LoadCredentials(ctx context.Context, api API, secretID string) (*Credentials, error) {
	if secretID == "" {
		return nil, errors.New("secret ID is required")
	}

	out, err := api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret value for %s, err: %w", secretID, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no SecretString", secretID)
	}

	return Parse(*out.SecretString)
}

// Parse validates a raw secret string.
func Parse(raw string) (*Credentials, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w, err: %v", ErrInvalidSecret, err)
	}
	if p.EndpointURL == nil || p.VerificationToken == nil {
		return nil, ErrInvalidSecret
	}

	u, err := url.Parse(*p.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("%w, invalid endpointUrl, err: %v", ErrInvalidSecret, err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, fmt.Errorf("%w, endpointUrl must be an absolute http(s) URL", ErrInvalidSecret)
	}

	return &Credentials{
		EndpointURL:       *p.EndpointURL,
		VerificationToken: *p.VerificationToken,
	}, nil
}
