package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/CLF-ReservationService/internal/api/handlers"
)

type userIDKey struct{}

// Auth требует заголовок X-User-ID и кладет ID пользователя в контекст
// Аутентификацию выполняет внешний шлюз, сервис доверяет заголовку
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseUserIDHeader(r)
		if !ok {
			handlers.RespondUnauthorized(w, "identificação do usuário ausente ou inválida")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth кладет ID пользователя в контекст, если заголовок есть
// Используется публичными ручками, отдающими персонализированные данные
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := parseUserIDHeader(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID))
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID извлекает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}

func parseUserIDHeader(r *http.Request) (int64, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}
