package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmbaye/pricetracker/internal/config"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, expiry time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTVerifier(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	ctx := context.Background()

	subject, err := verifier.Verify(ctx, signToken(t, testSecret, "user-1", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)

	_, err = verifier.Verify(ctx, signToken(t, "wrong-secret", "user-1", time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = verifier.Verify(ctx, signToken(t, testSecret, "user-1", -time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = verifier.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTVerifierMissingSubject(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifierRequiresConfig(t *testing.T) {
	_, err := NewVerifier(config.AuthConfig{})
	assert.Error(t, err)

	verifier, err := NewVerifier(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	assert.NotNil(t, verifier)
}

func newAuthRouter(verifier Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(verifier, nil))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	return r
}

func TestMiddlewareSetsUserID(t *testing.T) {
	r := newAuthRouter(NewJWTVerifier(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-1", time.Hour))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	r := newAuthRouter(NewJWTVerifier(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	r := newAuthRouter(NewJWTVerifier(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
