package wowapi

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// The library speaks JSON everywhere: response bodies, origin error
// payloads, and envelopes persisted by out-of-process cache engines. These
// helpers centralize the codec so every component decodes the same way.

// decodeObject decodes a JSON object body into the dynamic key/value tree
// the field mapper operates on.
func decodeObject(data []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return out, nil
}

// encodeEnvelope serializes an envelope for storage in an out-of-process
// cache engine.
func encodeEnvelope(entry *Envelope) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize cache entry: %w", err)
	}
	return data, nil
}

// decodeEnvelope deserializes an envelope previously stored by
// encodeEnvelope.
func decodeEnvelope(data []byte) (*Envelope, error) {
	var entry Envelope
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to deserialize cache entry: %w", err)
	}
	return &entry, nil
}
