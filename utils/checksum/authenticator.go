package checksum

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
)

// ErrEmptyKey is returned when an Authenticator is built without a secret.
var ErrEmptyKey = errors.New("checksum: secret key must not be empty")

// Authenticator derives and checks HMAC-SHA256 checksums for image URLs.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an Authenticator for the given secret key.
func NewAuthenticator(secret []byte) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, ErrEmptyKey
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Authenticator{secret: key}, nil
}

// Derive returns the lowercase hex HMAC-SHA256 of the exact URL bytes.
func (a *Authenticator) Derive(imageURL string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(imageURL))
	return hex.EncodeToString(mac.Sum(nil))
}

// Validate reports whether checksum authorizes imageURL.
func (a *Authenticator) Validate(imageURL, checksum string) bool {
	if checksum == "" {
		return false
	}
	return hmac.Equal([]byte(checksum), []byte(a.Derive(imageURL)))
}

// SignedQuery builds the query string a client needs to request imageURL.
func (a *Authenticator) SignedQuery(imageURL string) string {
	if imageURL == "" {
		return ""
	}
	q := url.Values{}
	q.Set("url", imageURL)
	q.Set("checksum", a.Derive(imageURL))
	return q.Encode()
}
