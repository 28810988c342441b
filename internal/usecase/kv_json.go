package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// loadJSON decodes the value at key into dst. A missing key leaves dst
// untouched and reports found=false.
func loadJSON(ctx context.Context, store domain.KeyValueStore, key string, dst interface{}) (bool, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read %s: %v", domain.ErrStorageFailure, key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", domain.ErrStorageFailure, key, err)
	}
	return true, nil
}

// storeJSON encodes value and writes it under key
func storeJSON(ctx context.Context, store domain.KeyValueStore, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := store.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageFailure, key, err)
	}
	return nil
}
