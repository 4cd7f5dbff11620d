package infrastructure

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/go-marketplace/pkg/e"
)

// coverExtensions — допустимые типы обложек и расширения объектов для них.
var coverExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// CoverExtension возвращает расширение объекта для MIME-типа обложки.
// Параметры типа ("; charset=...") отбрасываются.
func CoverExtension(mime string) (string, error) {
	base, _, _ := strings.Cut(mime, ";")
	ext, ok := coverExtensions[strings.ToLower(strings.TrimSpace(base))]
	if !ok {
		return "", e.ErrUnsupportedMediaType
	}
	return ext, nil
}

// CoverObjectKey строит ключ объекта обложки: <slug>/cover-<id>.<ext>.
func CoverObjectKey(slug, id, mime string) (string, error) {
	ext, err := CoverExtension(mime)
	if err != nil {
		return "", err
	}
	if slug == "" || id == "" {
		return "", fmt.Errorf("cover key: empty slug or id")
	}
	return fmt.Sprintf("%s/cover-%s.%s", slug, id, ext), nil
}
