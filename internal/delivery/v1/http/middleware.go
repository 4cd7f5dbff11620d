package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// TokenParser проверяет bearer-токен и возвращает идентификатор аккаунта.
type TokenParser interface {
	Parse(token string) (int64, error)
}

type ctxKey int

const accountIDKey ctxKey = iota

// RequestLogger пишет в лог метод, путь, статус и длительность каждого запроса.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Infof("%s %s %d %s request_id=%s",
				r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
		})
	}
}

// Authenticator требует валидный bearer-токен и кладёт id аккаунта в контекст.
func Authenticator(tokens TokenParser, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				WriteError(w, e.ErrUnauthorized)
				return
			}

			accountID, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				log.Debugf("rejected token on %s: %v", r.URL.Path, err)
				WriteError(w, e.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withAccountID(r.Context(), accountID)))
		})
	}
}

func withAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// accountIDFrom возвращает id аккаунта, установленный Authenticator.
func accountIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDKey).(int64)
	return id, ok
}
