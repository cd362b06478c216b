package azure

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MockBlobStorageClient is an in-memory implementation of BlobStorage for
// testing
type MockBlobStorageClient struct {
	Storage map[string][]byte
	mu      sync.RWMutex
	logger  *zap.Logger
}

// Ensure MockBlobStorageClient implements BlobStorage interface
var _ BlobStorage = (*MockBlobStorageClient)(nil)

// NewMockBlobStorageClient creates a new mock blob storage client
func NewMockBlobStorageClient(logger *zap.Logger) *MockBlobStorageClient {
	return &MockBlobStorageClient{
		Storage: make(map[string][]byte),
		logger:  logger,
	}
}

// UploadReport stores a report PDF in memory
func (c *MockBlobStorageClient) UploadReport(ctx context.Context, filename string, data []byte) (string, error) {
	return c.store(fmt.Sprintf("reports/%s", filename), data)
}

// DownloadReport reads a report PDF from memory
func (c *MockBlobStorageClient) DownloadReport(ctx context.Context, blobName string) ([]byte, error) {
	return c.load(blobName)
}

// UploadSnapshot stores a backup snapshot in memory
func (c *MockBlobStorageClient) UploadSnapshot(ctx context.Context, filename string, data []byte) (string, error) {
	return c.store(fmt.Sprintf("snapshots/%s", filename), data)
}

// DownloadSnapshot reads a backup snapshot from memory
func (c *MockBlobStorageClient) DownloadSnapshot(ctx context.Context, blobName string) ([]byte, error) {
	return c.load(blobName)
}

func (c *MockBlobStorageClient) store(blobName string, data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Storage[blobName] = data

	if c.logger != nil {
		c.logger.Info("mock: blob uploaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return blobName, nil
}

func (c *MockBlobStorageClient) load(blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage[blobName]
	if !exists {
		return nil, fmt.Errorf("blob not found: %s", blobName)
	}

	if c.logger != nil {
		c.logger.Info("mock: blob downloaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return data, nil
}
