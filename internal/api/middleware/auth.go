package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cercle-asbl/ASBL-BookingService/internal/api/handlers"
)

// Идентификация запросов: сервис стоит за API-гейтвеем, который
// аутентифицирует пользователя и прокидывает его идентификацию
// заголовками X-User-ID и X-User-Role

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	// RoleAdmin роль администратора ASBL
	RoleAdmin = "admin"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	userRoleKey
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth извлекает идентификацию пользователя из заголовков в контекст
// Запросы без корректного X-User-ID отклоняются
func Auth(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
			if err != nil || userID <= 0 {
				log.Warn("Auth: %s %s - missing or invalid %s header", r.Method, r.URL.Path, headerUserID)
				handlers.RespondUnauthorized(w, "identification de l'utilisateur manquante")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, userRoleKey, r.Header.Get(headerUserRole))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает только запросы с ролью администратора
// Вешается после Auth
func RequireAdmin(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r.Context()) {
				userID, _ := GetUserID(r.Context())
				log.Warn("RequireAdmin: %s %s - user=%d is not an admin", r.Method, r.URL.Path, userID)
				handlers.RespondForbidden(w, "réservé aux administrateurs")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// IsAdmin возвращает true, если запрос пришел от администратора
func IsAdmin(ctx context.Context) bool {
	role, ok := ctx.Value(userRoleKey).(string)
	return ok && role == RoleAdmin
}
