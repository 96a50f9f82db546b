package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/verdeo/auth-service/application/port/outbound"
	"github.com/verdeo/auth-service/domain/apperror"
	"github.com/verdeo/auth-service/domain/entity"
)

// Codec mints and verifies the HMAC-signed access/refresh tokens. Both token
// purposes share the same claim shape; only the purpose claim and the TTL
// differ.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type tokenClaims struct {
	Kind    string `json:"kind"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// NewCodec fails when the secret is empty or the refresh TTL does not exceed
// the access TTL; configuration validation upstream enforces the rest.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("signing secret must not be empty")
	}
	if refreshTTL <= accessTTL {
		return nil, fmt.Errorf("refresh TTL (%s) must exceed access TTL (%s)", refreshTTL, accessTTL)
	}
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// NewCodecWithClock is NewCodec with an injectable clock for expiry tests.
func NewCodecWithClock(secret string, accessTTL, refreshTTL time.Duration, now func() time.Time) (*Codec, error) {
	codec, err := NewCodec(secret, accessTTL, refreshTTL)
	if err != nil {
		return nil, err
	}
	codec.now = now
	return codec, nil
}

func (c *Codec) IssueAccessToken(accountID int64, kind entity.AccountKind) (string, error) {
	return c.issue(accountID, kind, outbound.TokenPurposeAccess, c.accessTTL)
}

func (c *Codec) IssueRefreshToken(accountID int64, kind entity.AccountKind) (string, error) {
	return c.issue(accountID, kind, outbound.TokenPurposeRefresh, c.refreshTTL)
}

// IssuePair is exactly IssueAccessToken followed by IssueRefreshToken.
func (c *Codec) IssuePair(accountID int64, kind entity.AccountKind) (string, string, error) {
	access, err := c.IssueAccessToken(accountID, kind)
	if err != nil {
		return "", "", err
	}
	refresh, err := c.IssueRefreshToken(accountID, kind)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (c *Codec) issue(accountID int64, kind entity.AccountKind, purpose outbound.TokenPurpose, ttl time.Duration) (string, error) {
	now := c.now()
	claims := tokenClaims{
		Kind:    string(kind),
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the embedded claims. It
// does not check the purpose; callers must compare Purpose against the use
// they are about to make of the token.
func (c *Codec) Decode(tokenString string) (*outbound.TokenClaims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.InvalidToken("token expired", err)
		}
		return nil, apperror.InvalidToken("signature or structure invalid", err)
	}
	if !token.Valid {
		return nil, apperror.InvalidToken("token not valid", nil)
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, apperror.InvalidToken("malformed subject", err)
	}
	kind, err := entity.ParseAccountKind(claims.Kind)
	if err != nil {
		return nil, apperror.InvalidToken("malformed kind claim", err)
	}
	purpose := outbound.TokenPurpose(claims.Purpose)
	if purpose != outbound.TokenPurposeAccess && purpose != outbound.TokenPurposeRefresh {
		return nil, apperror.InvalidToken("malformed purpose claim", nil)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &outbound.TokenClaims{
		AccountID: accountID,
		Kind:      kind,
		Purpose:   purpose,
		ExpiresAt: expiresAt,
	}, nil
}
