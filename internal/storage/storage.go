// Package storage provides the key-value persistence layer backing the
// medication collections. Each logical key holds one whole serialized
// collection; callers read, modify and write the full blob.
package storage

import (
	"context"
	"errors"
)

// Logical keys used by the repositories.
const (
	KeyMedications = "medications"
	KeyHistory     = "medication_history"
	KeyLastReset   = "medication_last_reset"
)

// ErrUnavailable indicates the backing store failed a read or write.
// Failures are surfaced to callers unchanged; no retry is performed here.
var ErrUnavailable = errors.New("storage unavailable")

// KeyValue is the persistence contract. Get returns a nil blob and nil
// error when the key is absent; callers treat that as an empty collection.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
