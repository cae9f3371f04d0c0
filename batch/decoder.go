package batch

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

const (
	MessageTypeData    = "DATA_MESSAGE"
	MessageTypeControl = "CONTROL_MESSAGE"
)

// Batch is one decoded delivery from a CloudWatch Logs subscription.
type Batch = events.CloudwatchLogsData

// Decode parses the base64 encoded, gzip compressed JSON payload of a
// subscription event.
func Decode(data string) (Batch, error) {
	b, err := events.CloudwatchLogsRawData{Data: data}.Parse()
	if err != nil {
		return Batch{}, fmt.Errorf("failed to decode logs batch, err: %w", err)
	}
	return b, nil
}

// Encode is the inverse of Decode.
func Encode(b Batch) (string, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("failed to marshal logs batch, err: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("failed to compress logs batch, err: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to compress logs batch, err: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Event wraps an encoded batch the way the subscription delivers it.
func Event(b Batch) (events.CloudwatchLogsEvent, error) {
	data, err := Encode(b)
	if err != nil {
		return events.CloudwatchLogsEvent{}, err
	}
	return events.CloudwatchLogsEvent{AWSLogs: events.CloudwatchLogsRawData{Data: data}}, nil
}
