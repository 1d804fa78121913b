package client

import (
	"encoding/json"
	"fmt"

	"github.com/civicgrid/content-client/pkg/content"
	"github.com/civicgrid/content-client/pkg/transport"
)

// envelope is the generic wire frame for content API responses. The
// item payload sits under a domain-specific field, so decoding runs in
// two passes.
type envelope map[string]json.RawMessage

func parseEnvelope(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, transport.NewParseError(err)
	}
	return env, nil
}

func (e envelope) correlationID() string {
	raw, ok := e["correlation_id"]
	if !ok {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}

// decodePage decodes a list envelope:
//
//	{"<itemsField>": [...], "count": N, "correlation_id": "..."}
func decodePage[T any](data []byte, itemsField string) (content.Page[T], error) {
	env, err := parseEnvelope(data)
	if err != nil {
		return content.Page[T]{}, err
	}

	raw, ok := env[itemsField]
	if !ok {
		return content.Page[T]{}, transport.NewParseError(fmt.Errorf("response missing %q field", itemsField))
	}

	var page content.Page[T]
	if err := json.Unmarshal(raw, &page.Items); err != nil {
		return content.Page[T]{}, transport.NewParseError(err)
	}
	if rawCount, ok := env["count"]; ok {
		if err := json.Unmarshal(rawCount, &page.Count); err != nil {
			return content.Page[T]{}, transport.NewParseError(err)
		}
	}
	page.CorrelationID = env.correlationID()

	return page, nil
}

// decodeItem decodes a single-item envelope:
//
//	{"<itemField>": {...}, "correlation_id": "..."}
func decodeItem[T any](data []byte, itemField string) (T, error) {
	var item T

	env, err := parseEnvelope(data)
	if err != nil {
		return item, err
	}

	raw, ok := env[itemField]
	if !ok {
		return item, transport.NewParseError(fmt.Errorf("response missing %q field", itemField))
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, transport.NewParseError(err)
	}

	return item, nil
}
