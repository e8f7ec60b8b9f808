// Package storage holds the durable key/value backends. Every value is a JSON blob
// so all backends share one on-disk layout.
package storage

import (
	"context"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/talkincode/toughstock/internal/domain"
)

// KV is the durable key/value store the inventory persists into.
type KV interface {
	// Get returns the raw value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores several keys at once. Backends that support it write them atomically.
	Set(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal encodes v the way every backend stores it.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes a stored blob.
func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// GetJSON loads key into v. It reports false when the key is absent.
func GetJSON(ctx context.Context, kv KV, key string, v interface{}) (bool, error) {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, errors.Wrapf(domain.ErrPersistence, "read %s: %v", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := Unmarshal(data, v); err != nil {
		return false, errors.Wrapf(domain.ErrPersistence, "decode %s: %v", key, err)
	}
	return true, nil
}

// SetJSON encodes each value and writes them in one Set call.
func SetJSON(ctx context.Context, kv KV, values map[string]interface{}) error {
	entries := make(map[string][]byte, len(values))
	for k, v := range values {
		data, err := Marshal(v)
		if err != nil {
			return errors.Wrapf(domain.ErrPersistence, "encode %s: %v", k, err)
		}
		entries[k] = data
	}
	if err := kv.Set(ctx, entries); err != nil {
		return errors.Wrapf(domain.ErrPersistence, "write: %v", err)
	}
	return nil
}

// Open builds the backend named by typ.
func Open(typ, path, dsn string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "bolt", "bbolt":
		return OpenBolt(path)
	case "postgres", "postgresql":
		return OpenPostgres(dsn)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, errors.Errorf("unsupported storage type %s", typ)
	}
}
