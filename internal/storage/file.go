package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/medtrack/backend/internal/security"
	"go.uber.org/zap"
)

// FileStore persists each key as a JSON file in a data directory. Writes
// are atomic (temp file then rename). When an encryptor is provided, blobs
// are encrypted at rest with AES-256-GCM.
type FileStore struct {
	dir       string
	encryptor *security.Encryptor
	logger    *zap.Logger
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
// encryptor may be nil for plaintext storage.
func NewFileStore(dir string, encryptor *security.Encryptor, logger *zap.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w: %w", dir, ErrUnavailable, err)
	}

	return &FileStore{
		dir:       dir,
		encryptor: encryptor,
		logger:    logger,
	}, nil
}

// Get reads the blob stored under key. A missing file is not an error; it
// returns a nil blob.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to read key file",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("read %s: %w: %w", key, ErrUnavailable, err)
	}

	if s.encryptor != nil {
		plaintext, err := s.encryptor.Decrypt(string(data))
		if err != nil {
			s.logger.Error("failed to decrypt key file",
				zap.String("key", key),
				zap.Error(err),
			)
			return nil, fmt.Errorf("decrypt %s: %w: %w", key, ErrUnavailable, err)
		}
		return []byte(plaintext), nil
	}

	return data, nil
}

// Set atomically writes the blob under key.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	path := s.path(key)

	out := value
	if s.encryptor != nil {
		ciphertext, err := s.encryptor.Encrypt(string(value))
		if err != nil {
			s.logger.Error("failed to encrypt key file",
				zap.String("key", key),
				zap.Error(err),
			)
			return fmt.Errorf("encrypt %s: %w: %w", key, ErrUnavailable, err)
		}
		out = []byte(ciphertext)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, out, 0o600); err != nil {
		return fmt.Errorf("write %s: %w: %w", key, ErrUnavailable, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w: %w", key, ErrUnavailable, err)
	}

	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
