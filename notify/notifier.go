package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/edgedelta/log-error-notifier/secret"
)

var (
	newHTTPClientFunc = func() *http.Client {
		t := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          16,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		}
		return &http.Client{Transport: t}
	}
)

// DeliveryError is returned when the webhook answers with a non-2xx status.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("webhook returned unexpected status code: %d response: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("webhook returned unexpected status code: %d", e.StatusCode)
}

type Notifier struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewNotifier(creds *secret.Credentials) (*Notifier, error) {
	endpoint, err := url.Parse(creds.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse webhook endpoint, err: %w", err)
	}
	q := endpoint.Query()
	q.Set("format", "full")
	endpoint.RawQuery = q.Encode()

	return &Notifier{
		endpoint:   endpoint.String(),
		token:      creds.VerificationToken,
		httpClient: newHTTPClientFunc(),
	}, nil
}

// Send posts msg once. It blocks until the webhook answers or ctx is done.
func (n *Notifier) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message, err: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create http post request, err: %w", err)
	}
	req.Header.Set("Authorization", n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call webhook, err: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int("status", resp.StatusCode).Msg("Failed to read webhook response body")
		}
		body := string(bodyBytes)
		zerolog.Ctx(ctx).Error().Int("status", resp.StatusCode).Str("response", body).Msg("Webhook rejected notification")
		return &DeliveryError{StatusCode: resp.StatusCode, Body: body}
	}

	// drain so the connection can be reused by the next invocation
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
