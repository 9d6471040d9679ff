package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid download token")
	ErrTokenExpired = errors.New("download token expired")
)

// DownloadClaims identify the hall ticket a signed link points to.
type DownloadClaims struct {
	Collection string
	RollNumber string
	ExpiresAt  time.Time
}

// SignedURLSigner creates and validates signed hall ticket download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate returns a token naming the collection and roll number.
func (s *SignedURLSigner) Generate(collection, rollNumber string) (string, time.Time, error) {
	if collection == "" || rollNumber == "" {
		return "", time.Time{}, fmt.Errorf("collection and roll number required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	parts := []string{
		base64.RawURLEncoding.EncodeToString([]byte(collection)),
		base64.RawURLEncoding.EncodeToString([]byte(rollNumber)),
		strconv.FormatInt(expiresAt.Unix(), 10),
	}
	parts = append(parts, s.sign(parts))
	return strings.Join(parts, "."), expiresAt, nil
}

// Parse validates a token and returns the embedded claims.
func (s *SignedURLSigner) Parse(token string) (*DownloadClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return nil, ErrInvalidToken
	}
	if !hmac.Equal([]byte(s.sign(parts[:3])), []byte(parts[3])) {
		return nil, ErrInvalidToken
	}

	collection, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: collection: %v", ErrInvalidToken, err)
	}
	roll, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: roll number: %v", ErrInvalidToken, err)
	}
	expUnix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp", ErrInvalidToken)
	}
	expiresAt := time.Unix(expUnix, 0)
	if s.now().After(expiresAt) {
		return nil, ErrTokenExpired
	}
	return &DownloadClaims{Collection: string(collection), RollNumber: string(roll), ExpiresAt: expiresAt}, nil
}

func (s *SignedURLSigner) sign(parts []string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}
