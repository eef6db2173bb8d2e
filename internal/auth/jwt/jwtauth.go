package jwt

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// Config holds the API token settings. An empty secret disables token checks.
type Config struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`
}

// DefaultTTL is used when no token lifetime is configured.
const DefaultTTL = 30 * 24 * time.Hour

// New returns the HS256 signer for c, or nil when auth is disabled.
func New(c Config) *jwtauth.JWTAuth {
	if c.JWTSecret == "" {
		return nil
	}
	return jwtauth.New("HS256", []byte(c.JWTSecret), nil)
}

func VerifyToken(jwtAuth *jwtauth.JWTAuth, token string) (string, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return "", err
	}
	return t.Subject(), nil
}

// NewTokenWithSubject creates a JWT with an optional subject claim naming the API client.
func NewTokenWithSubject(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, subject string) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	claims := map[string]interface{}{
		"exp": time.Now().Add(ttl).Unix(),
	}
	if subject != "" {
		claims["sub"] = subject
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return ts, err
	}
	return ts, nil
}

// WithAuth rejects requests without a valid bearer token. A nil jwtAuth lets every request through.
func WithAuth(jwtAuth *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if jwtAuth == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if _, err := VerifyToken(jwtAuth, token); err != nil {
				http.Error(w, fmt.Sprintf("invalid token %v", err.Error()), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
