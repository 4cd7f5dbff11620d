package usecase

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/google/uuid"
)

const (
	minPasswordLen = 8
	maxSlugBase    = 50
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeEmail приводит email к единому виду для сравнения.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return e.ErrEmailRequired
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return e.ErrEmailRequired
	}

	return nil
}

func validateContentURL(raw *string) error {
	if raw == nil {
		return nil
	}

	u, err := url.ParseRequestURI(*raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return e.ErrInvalidContentURL
	}

	return nil
}

// makeSlug строит slug из названия товара и короткого случайного суффикса.
func makeSlug(name string) string {
	base := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if len(base) > maxSlugBase {
		base = strings.TrimRight(base[:maxSlugBase], "-")
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if base == "" {
		return suffix
	}

	return base + "-" + suffix
}
