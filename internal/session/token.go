package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

// Claims carries an identity inside a signed token.
type Claims struct {
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 identity tokens. Only the store and the
// development token command hold the secret.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds a token codec. A non-positive ttl defaults to 24h.
func NewTokens(secret, issuer string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs a token for id.
func (t *Tokens) Issue(id Identity) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrInternal, "token secret is not configured")
	}
	issuedAt := t.now().UTC()
	expiresAt := issuedAt.Add(t.ttl)
	subject := id.RollNumber
	if subject == "" {
		subject = id.Name
	}
	claims := &Claims{
		Role:       ParseRole(string(id.Role)),
		Name:       id.Name,
		RollNumber: id.RollNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates raw and returns the identity it carries, with Token set to raw.
func (t *Tokens) Parse(raw string) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(t.now)}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return Identity{
		Role:       ParseRole(string(claims.Role)),
		Name:       claims.Name,
		RollNumber: claims.RollNumber,
		Token:      raw,
	}, nil
}

// Decode reads the identity carried by raw without checking its signature. The
// portal uses it to present the caller's role and name; the store verifies the
// token on every request. Expired tokens are still rejected so the portal does
// not start with an identity the store will refuse.
func Decode(raw string) (Identity, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Identity{}, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	if claims.ExpiresAt != nil && !time.Now().Before(claims.ExpiresAt.Time) {
		return Identity{}, appErrors.Clone(appErrors.ErrUnauthorized, "token has expired")
	}
	return Identity{
		Role:       ParseRole(string(claims.Role)),
		Name:       claims.Name,
		RollNumber: claims.RollNumber,
		Token:      raw,
	}, nil
}
