package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt marks a stored value that exists but could not be decoded.
var ErrCorrupt = errors.New("store: corrupt value")

// ReadJSON decodes the value at key into v. It reports false when the key is
// absent. Decode failures wrap ErrCorrupt; everything else is an I/O error
// from the adapter.
func ReadJSON(ctx context.Context, a Adapter, key string, v any) (bool, error) {
	raw, ok, err := a.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("store: read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// ReadList decodes a JSON array stored at key. An absent key yields an empty
// list. On ErrCorrupt the returned list is nil.
func ReadList[T any](ctx context.Context, a Adapter, key string) ([]T, error) {
	var list []T
	if _, err := ReadJSON(ctx, a, key, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// WriteJSON encodes v and stores it at key.
func WriteJSON(ctx context.Context, a Adapter, key string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := a.Set(ctx, key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// Encode renders v as stored text.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteList stores list as a JSON array, writing [] rather than null for an
// empty list.
func WriteList[T any](ctx context.Context, a Adapter, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	return WriteJSON(ctx, a, key, list)
}
