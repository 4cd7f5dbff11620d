package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/go-marketplace/internal/cfg"
	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/internal/infrastructure"
	"github.com/DRSN-tech/go-marketplace/internal/usecase"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/jitter"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/google/uuid"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// MinioInfrastructure управляет загрузкой и очисткой обложек в MinIO.
type MinioInfrastructure struct {
	minioRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	backoffBase time.Duration
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo:   minioRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		backoffBase: time.Second,
	}
}

// UploadCover проверяет тип и размер обложки и загружает её под ключом <slug>/cover-<uuid>.<ext>.
func (m *MinioInfrastructure) UploadCover(ctx context.Context, req *usecase.UploadCoverReq) (string, error) {
	const op = "MinioInfrastructure.UploadCover"

	if m.cfg.MaxCoverSize > 0 && int64(len(req.Image.Data)) > m.cfg.MaxCoverSize {
		return "", e.Wrap(op, e.ErrFileTooLarge)
	}

	imageID := uuid.NewString()
	objKey, err := infrastructure.CoverObjectKey(req.Slug, imageID, req.Image.MimeType)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("cover %s (%s): %w", req.Image.Name, req.Image.MimeType, err))
	}
	image := domain.NewImage(imageID, m.cfg.BucketName, objKey, req.Image.Data, req.Image.MimeType)

	key, err := m.minioRepo.Upload(ctx, image)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return key, nil
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded keys", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		err := jitter.Retry(ctx, cleanupAttempts, m.backoffBase, cleanupTimeout, func(ctx context.Context) error {
			return m.minioRepo.Delete(ctx, key)
		})
		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
			return
		}
		m.logger.Errorf(err, "%s: giving up on key=%s", op, key)
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
