package middleware

import (
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/notary-bridge/internal/api/shared/errors"
)

const (
	AUTH_TYPE_KEY    = "auth_type"
	AUTH_SUBJECT_KEY = "auth_subject"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success     bool
	AuthType    string // "jwt" or "apikey"
	AuthSubject string
	Error       error
}

// Authenticator validates Authorization headers against the configured credentials
type Authenticator struct {
	publicKey *rsa.PublicKey
	apiKeys   [][]byte
}

// NewAuthenticator parses the configured credentials once
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	a := &Authenticator{}
	if cfg.JWTPublicKey != "" {
		publicKey, err := parseRSAPublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		a.publicKey = publicKey
	}
	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys = append(a.apiKeys, []byte(key))
		}
	}
	return a, nil
}

// Enabled reports whether any credential is configured
func (a *Authenticator) Enabled() bool {
	return a != nil && (a.publicKey != nil || len(a.apiKeys) > 0)
}

// Authenticate validates the Authorization header and returns the authentication result
func (a *Authenticator) Authenticate(authHeader string) AuthResult {
	result := AuthResult{}

	if authHeader == "" {
		result.Error = errors.New("missing Authorization header")
		return result
	}

	// Parse Authorization header: "Bearer <token>" or "ApiKey <key>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		result.Error = errors.New("invalid Authorization header format")
		return result
	}

	switch strings.ToLower(parts[0]) {
	case "bearer":
		claims, err := a.validateJWT(parts[1])
		if err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = "jwt"
		result.AuthSubject = claims.Subject

	case "apikey":
		if err := a.validateAPIKey(parts[1]); err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = "apikey"

	default:
		result.Error = fmt.Errorf("unsupported authorization type: %s", parts[0])
	}

	return result
}

// Auth returns a gin middleware for authentication.
// It supports both JWT (Bearer token) and API Key authentication and lets every request through when none is configured.
func Auth(a *Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}

		result := a.Authenticate(c.GetHeader("Authorization"))
		if !result.Success {
			logger.Warn("Authentication failed",
				zap.Error(result.Error),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apierrors.NewUnauthorizedError("Authentication failed", result.Error.Error())})
			return
		}

		c.Set(AUTH_TYPE_KEY, result.AuthType)
		if result.AuthSubject != "" {
			c.Set(AUTH_SUBJECT_KEY, result.AuthSubject)
		}
		c.Next()
	}
}

// validateJWT validates a JWT token with RSA signature and returns claims
func (a *Authenticator) validateJWT(tokenString string) (*jwt.RegisteredClaims, error) {
	if a.publicKey == nil {
		return nil, errors.New("JWT public key not configured")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.publicKey, nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// parseRSAPublicKey parses an RSA public key from PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	// Try parsing as PKIX (most common format)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// Try parsing as PKCS1 format
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}

// validateAPIKey compares the key in constant time against every configured key
func (a *Authenticator) validateAPIKey(apiKey string) error {
	if len(a.apiKeys) == 0 {
		return errors.New("no API keys configured")
	}

	for _, valid := range a.apiKeys {
		if subtle.ConstantTimeCompare(valid, []byte(apiKey)) == 1 {
			return nil
		}
	}
	return errors.New("invalid API key")
}
