package repository

import (
	"encoding/json"
	"fmt"
)

// Fetch-style webhooks return an array of matching records (possibly empty);
// mutation webhooks return an array holding the single affected record, or an
// empty body. These helpers normalize both shapes.

// decodeList decodes an array response. A nil raw body (204-like response)
// decodes to an empty slice.
func decodeList[T any](raw json.RawMessage, what string) ([]T, error) {
	if raw == nil {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", what, err)
	}
	return out, nil
}

// decodeFirst decodes an array response and returns its first record, or nil
// when the array is empty or the body was empty.
func decodeFirst[T any](raw json.RawMessage, what string) (*T, error) {
	list, err := decodeList[T](raw, what)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// requireFirst is decodeFirst for mutations whose contract guarantees an
// affected record; an empty response is an error.
func requireFirst[T any](raw json.RawMessage, what string) (*T, error) {
	rec, err := decodeFirst[T](raw, what)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s did not return a record", what)
	}
	return rec, nil
}
