package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"github.com/kmbaye/pricetracker/internal/config"
)

// ContextUserKey is the gin context key under which the middleware stores the
// authenticated user id.
const ContextUserKey = "userID"

// ErrInvalidToken indicates the bearer token failed verification in every
// configured mode.
var ErrInvalidToken = errors.New("invalid bearer token")

// Verifier resolves a bearer token to the identity-provider subject.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// JWTVerifier validates HS256 tokens signed with a shared secret. The subject
// claim carries the user id.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier constructs a shared-secret verifier.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token and returns its subject.
func (v *JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", fmt.Errorf("%w: missing subject claim", ErrInvalidToken)
	}
	return subject, nil
}

// GoogleVerifier validates Google-issued ID tokens against the configured
// OAuth client id, matching the delegated Google sign-in of the web client.
type GoogleVerifier struct {
	clientID string
}

// NewGoogleVerifier constructs a Google ID token verifier.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify validates the ID token and returns its subject.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (string, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return payload.Subject, nil
}

type chainVerifier []Verifier

func (c chainVerifier) Verify(ctx context.Context, token string) (string, error) {
	for _, v := range c {
		subject, err := v.Verify(ctx, token)
		if err == nil {
			return subject, nil
		}
	}
	return "", ErrInvalidToken
}

// NewVerifier builds the verifier chain from config: JWT first when a secret
// is set, then Google when a client id is set.
func NewVerifier(cfg config.AuthConfig) (Verifier, error) {
	var chain chainVerifier
	if cfg.JWTSecret != "" {
		chain = append(chain, NewJWTVerifier(cfg.JWTSecret))
	}
	if cfg.GoogleClientID != "" {
		chain = append(chain, NewGoogleVerifier(cfg.GoogleClientID))
	}
	if len(chain) == 0 {
		return nil, errors.New("no token verifier configured")
	}
	return chain, nil
}

// Middleware authenticates the request and stores the resolved user id in the
// gin context. Handlers never trust a client-supplied user id.
func Middleware(verifier Verifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is missing"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		subject, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Warn("token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserKey, subject)
		c.Next()
	}
}

// UserID returns the authenticated user id stored by the middleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}
