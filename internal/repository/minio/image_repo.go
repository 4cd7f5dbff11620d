package minio

import (
	"bytes"
	"context"
	"net/http"

	"github.com/DRSN-tech/go-marketplace/internal/cfg"
	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// Ключи обложек уникальны (uuid), объект по ключу никогда не перезаписывается.
const coverCacheControl = "public, max-age=31536000, immutable"

// ImageRepo хранит обложки товаров в MinIO.
type ImageRepo struct {
	mc     *minio.Client
	bucket string
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:     mc,
		bucket: cfg.BucketName,
	}
}

// Upload кладёт обложку в бакет изображения (или в бакет по умолчанию) и возвращает ключ объекта.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	bucket := image.Bucket
	if bucket == "" {
		bucket = i.bucket
	}

	info, err := i.mc.PutObject(ctx, bucket, image.ObjectKey, bytes.NewReader(image.Bytes), image.Size, minio.PutObjectOptions{
		ContentType:  image.ContentType,
		CacheControl: coverCacheControl,
		UserMetadata: map[string]string{"image-id": image.ID},
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет обложку. Отсутствующий объект считается уже удалённым,
// поэтому повторная очистка того же ключа не возвращает ошибку.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	err := i.mc.RemoveObject(ctx, i.bucket, key, minio.RemoveObjectOptions{})
	if err == nil || isNotFound(err) {
		return nil
	}

	return e.Wrap(whereami.WhereAmI(), err)
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
