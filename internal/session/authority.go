// Package session issues and validates bearer credentials. Every token embeds
// the epoch of the process that issued it; a restart produces a new epoch, so
// all previously issued tokens become stale at once without any revocation
// bookkeeping.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid login token")
	ErrTokenExpired = errors.New("token expired")
	ErrStaleSession = errors.New("session expired due to server restart")
)

const DefaultTTL = 24 * time.Hour

type Claims struct {
	UserID int    `json:"uid"`
	Email  string `json:"email"`
	Epoch  int64  `json:"epoch"`
	jwt.RegisteredClaims
}

// Authority signs and verifies session tokens against one process epoch. It is
// constructed once at startup and passed to whoever needs it; the epoch is
// read-only afterwards.
type Authority struct {
	secret []byte
	epoch  int64
	ttl    time.Duration
}

// New creates an Authority with a fresh epoch for this process lifetime.
func New(secret string) *Authority {
	return NewWithEpoch(secret, time.Now().UnixNano())
}

// NewWithEpoch creates an Authority with an explicit epoch. Tests use this to
// simulate a restart by constructing two authorities with different epochs.
func NewWithEpoch(secret string, epoch int64) *Authority {
	return &Authority{
		secret: []byte(secret),
		epoch:  epoch,
		ttl:    DefaultTTL,
	}
}

func (a *Authority) Epoch() int64 {
	return a.epoch
}

// IssueToken returns a signed token for the user, valid for 24 hours and only
// within the current process lifetime.
func (a *Authority) IssueToken(userID int, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Epoch:  a.epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry, then checks the embedded epoch
// against this process's epoch. A mismatch means the token predates the
// current server start and the user must log in again.
func (a *Authority) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Epoch != a.epoch {
		return nil, ErrStaleSession
	}

	return claims, nil
}
