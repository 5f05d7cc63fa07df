package httpmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxKeyToken  ctxKey = "token"
	ctxKeyUserID ctxKey = "user_id"
)

// Валидация токена — зона ответственности auth-сервиса платформы;
// здесь требуем Bearer + X-User-ID (UUID), проставленные шлюзом.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || len(auth) <= 7 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"missing bearer token"}`))
			return
		}

		uidHeader := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if uidHeader == "" {
			http.Error(w, `{"success":false,"message":"missing X-User-ID"}`, http.StatusUnauthorized)
			return
		}
		if _, err := uuid.Parse(uidHeader); err != nil {
			http.Error(w, `{"success":false,"message":"invalid X-User-ID (must be UUID)"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyToken, strings.TrimSpace(auth[7:]))
		ctx = context.WithValue(ctx, ctxKeyUserID, uidHeader)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserIDFromCtx(ctx context.Context) string {
	if v := ctx.Value(ctxKeyUserID); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
