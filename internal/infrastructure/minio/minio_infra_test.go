package minio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/go-marketplace/internal/cfg"
	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockImageRepo struct {
	mu          sync.Mutex
	uploaded    []*domain.Image
	deleteCalls map[string]int
	failDeletes int
}

func (m *MockImageRepo) Upload(_ context.Context, image *domain.Image) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.uploaded = append(m.uploaded, image)
	return image.ObjectKey, nil
}

func (m *MockImageRepo) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteCalls == nil {
		m.deleteCalls = map[string]int{}
	}
	m.deleteCalls[key]++
	if m.deleteCalls[key] <= m.failDeletes {
		return errors.New("minio unavailable")
	}
	return nil
}

func newInfra(repo *MockImageRepo) *MinioInfrastructure {
	infra := NewMinioInfrastructure(repo, &cfg.MinIOCfg{BucketName: "covers", MaxCoverSize: 8}, logger.NewNop(), context.Background())
	infra.backoffBase = time.Millisecond
	return infra
}

func TestUploadCover(t *testing.T) {
	repo := &MockImageRepo{}
	infra := newInfra(repo)

	key, err := infra.UploadCover(context.Background(), usecase.NewUploadCoverReq("ebook-1a2b3c4d", *usecase.NewProductImage([]byte("png"), "image/png", 3, "c.png")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "ebook-1a2b3c4d/cover-"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	require.Len(t, repo.uploaded, 1)
	assert.Equal(t, "covers", repo.uploaded[0].Bucket)
	assert.Equal(t, int64(3), repo.uploaded[0].Size)
}

func TestUploadCover_Rejects(t *testing.T) {
	repo := &MockImageRepo{}
	infra := newInfra(repo)

	_, err := infra.UploadCover(context.Background(), usecase.NewUploadCoverReq("s", *usecase.NewProductImage([]byte("gif"), "image/gif", 3, "c.gif")))
	require.ErrorIs(t, err, e.ErrUnsupportedMediaType)

	_, err = infra.UploadCover(context.Background(), usecase.NewUploadCoverReq("s", *usecase.NewProductImage([]byte("too large!"), "image/jpeg", 10, "c.jpg")))
	require.ErrorIs(t, err, e.ErrFileTooLarge)

	assert.Empty(t, repo.uploaded)
}

func TestCleanupImages_RetriesUntilDeleted(t *testing.T) {
	repo := &MockImageRepo{failDeletes: 2}
	infra := newInfra(repo)

	infra.CleanupImages([]string{"a", "b"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, infra.WaitForCleanup(ctx))

	assert.Equal(t, map[string]int{"a": 3, "b": 3}, repo.deleteCalls)
}

func TestCleanupImages_GivesUpAfterAttempts(t *testing.T) {
	repo := &MockImageRepo{failDeletes: 10}
	infra := newInfra(repo)

	infra.CleanupImages([]string{"a"})
	infra.CleanupImages(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, infra.WaitForCleanup(ctx))

	assert.Equal(t, map[string]int{"a": cleanupAttempts}, repo.deleteCalls)
}
