package utils

import (
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the JSON body wrapping every BidStock API response:
// {"status": ..., "message": ..., "data": ...} on success and
// {"status": ..., "message": ..., "error": ...} on failure.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Err     string          `json:"error,omitempty"`
}

// DecodeEnvelope reads and parses a response body.
func DecodeEnvelope(r io.Reader) (*Envelope, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if len(body) == 0 {
		return &Envelope{}, nil
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse response envelope: %w", err)
	}
	return &env, nil
}

// DataInto unmarshals the envelope's data payload into v. A missing payload
// leaves v untouched.
func (e *Envelope) DataInto(v any) error {
	if v == nil || len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
