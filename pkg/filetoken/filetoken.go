// Package filetoken issues and verifies the signed, short-lived tokens that
// grant access to a single cached file through the /files endpoint.
package filetoken

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 15 * time.Minute

var (
	ErrTokenExpired = errors.New("file token expired")
	ErrTokenInvalid = errors.New("file token invalid")
)

// Service signs {file_path, exp} claims with a process-lifetime HS256 secret.
// Tokens are never stored; reissuing is cheap so there is no revocation list.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret string) *Service {
	if secret == "" {
		secret = randomSecret()
	}
	return &Service{secret: []byte(secret), now: time.Now}
}

// randomSecret generates a 32-byte urlsafe secret for servers started
// without JWT_SECRET. Tokens then only survive the current process.
func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("filetoken: cannot read random source: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// Issue signs a token binding filePath for ttl. A non-positive ttl falls
// back to DefaultTTL.
func (s *Service) Issue(filePath string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	claims := jwt.MapClaims{
		"file_path": filePath,
		"exp":       jwt.NewNumericDate(s.now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the bound file path. Expired and malformed tokens come back
// as distinct errors for logging, but callers must present both identically
// to the client.
func (s *Service) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}
	filePath, ok := claims["file_path"].(string)
	if !ok || filePath == "" {
		return "", ErrTokenInvalid
	}
	return filePath, nil
}
