package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-SalonScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduling/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

const (
	msgMissingToken = "missing bearer token"
	msgInvalidToken = "invalid token"
)

var (
	// ErrMissingToken заголовок Authorization отсутствует или не Bearer
	ErrMissingToken = errors.New("auth: missing bearer token")

	// ErrInvalidToken токен не прошел проверку
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims полезная нагрузка токена, выданного сервисом авторизации
type Claims struct {
	UserID int64  `json:"user_id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Authenticator проверяет HS256 bearer токены и кладет Actor в контекст
type Authenticator struct {
	secret []byte
	issuer string
	logger Logger
}

// NewAuthenticator создает middleware аутентификации
func NewAuthenticator(secret, issuer string, logger Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		issuer: issuer,
		logger: logger,
	}
}

// Middleware проверяет токен; 401 при отсутствии или невалидном токене
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := a.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			a.logger.Warn("%s %s - authentication failed: %v", r.Method, r.URL.Path, err)
			if errors.Is(err, ErrMissingToken) {
				handlers.RespondUnauthorized(w, msgMissingToken)
			} else {
				handlers.RespondUnauthorized(w, msgInvalidToken)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// Authenticate разбирает значение заголовка Authorization
func (a *Authenticator) Authenticate(header string) (domain.Actor, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return domain.Actor{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID := claims.UserID
	if userID == 0 && claims.Subject != "" {
		userID, err = strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return domain.Actor{}, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
		}
	}
	if userID <= 0 {
		return domain.Actor{}, fmt.Errorf("%w: user id is missing", ErrInvalidToken)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return domain.Actor{UserID: userID, Role: role}, nil
}

// WithActor кладет Actor в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor извлекает Actor из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}
