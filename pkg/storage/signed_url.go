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
	// ErrInvalidLink is returned for tokens that are malformed or carry a bad signature.
	ErrInvalidLink = errors.New("storage: invalid download link")
	// ErrLinkExpired is returned for well-signed tokens past their expiry.
	ErrLinkExpired = errors.New("storage: download link expired")
)

// SignedLink is a time-limited reference to one stored file.
type SignedLink struct {
	Token     string
	Filename  string
	ExpiresAt time.Time
}

// LinkSigner issues and checks HMAC-signed download tokens for stored files.
type LinkSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewLinkSigner constructs a signer. A non-positive ttl defaults to 30 minutes.
func NewLinkSigner(secret string, ttl time.Duration) *LinkSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &LinkSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token granting access to filename until the signer's ttl elapses.
func (s *LinkSigner) Sign(filename string) (SignedLink, error) {
	if filename == "" {
		return SignedLink{}, fmt.Errorf("sign link: filename required")
	}
	if len(s.secret) == 0 {
		return SignedLink{}, fmt.Errorf("sign link: secret missing")
	}
	expiresAt := s.now().UTC().Add(s.ttl).Truncate(time.Second)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(filename))
	expiry := strconv.FormatInt(expiresAt.Unix(), 10)
	token := encoded + "." + expiry + "." + s.mac(encoded, expiry)
	return SignedLink{Token: token, Filename: filename, ExpiresAt: expiresAt}, nil
}

// Verify checks token and returns the file it grants access to.
func (s *LinkSigner) Verify(token string) (SignedLink, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || len(s.secret) == 0 {
		return SignedLink{}, ErrInvalidLink
	}
	encoded, expiry, signature := parts[0], parts[1], parts[2]
	if !hmac.Equal([]byte(s.mac(encoded, expiry)), []byte(signature)) {
		return SignedLink{}, ErrInvalidLink
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return SignedLink{}, ErrInvalidLink
	}
	unix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return SignedLink{}, ErrInvalidLink
	}
	link := SignedLink{Token: token, Filename: string(raw), ExpiresAt: time.Unix(unix, 0).UTC()}
	if !s.now().Before(link.ExpiresAt) {
		return link, ErrLinkExpired
	}
	return link, nil
}

func (s *LinkSigner) mac(encoded, expiry string) string {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(encoded + "|" + expiry))
	return hex.EncodeToString(h.Sum(nil))
}
