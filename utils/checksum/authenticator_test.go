package checksum

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthenticator_RejectsEmptyKey(t *testing.T) {
	_, err := NewAuthenticator(nil)
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewAuthenticator([]byte{})
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestAuthenticator_DeriveKnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		imageURL string
		want     string
	}{
		{
			name:     "single character key",
			key:      "k",
			imageURL: "http://example.com/a.png",
			want:     "99f2c7779481328f496500a8eff64968172a5a17fb44ac062e89087a272a1ce5",
		},
		{
			name:     "longer key",
			key:      "test-secret-key",
			imageURL: "https://example.com/image.jpg",
			want:     "2cec88f2c319afb8e757a16d708448ebb05b02dfbefe09b0c44b826747c7cf48",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := NewAuthenticator([]byte(tt.key))
			require.NoError(t, err)
			assert.Equal(t, tt.want, auth.Derive(tt.imageURL))
		})
	}
}

func TestAuthenticator_DeriveIsDeterministic(t *testing.T) {
	auth, err := NewAuthenticator([]byte("test-secret-key"))
	require.NoError(t, err)

	urls := []string{
		"https://example.com/image.jpg",
		"https://cdn.example.com/photo.webp?w=1200&h=630",
		"https://example.com/画像/photo.png",
		"https://example.com/images/test%20image.jpg?q=80&format=webp",
	}
	for _, u := range urls {
		first := auth.Derive(u)
		assert.Equal(t, first, auth.Derive(u))
		assert.Len(t, first, 64)
		assert.True(t, auth.Validate(u, first), "Validate(%q, Derive) must hold", u)
	}
}

func TestAuthenticator_ValidateRejectsTampering(t *testing.T) {
	auth, err := NewAuthenticator([]byte("k"))
	require.NoError(t, err)

	imageURL := "http://example.com/a.png"
	good := auth.Derive(imageURL)

	tests := []struct {
		name     string
		imageURL string
		checksum string
	}{
		{"wrong literal", imageURL, "wrong"},
		{"empty checksum", imageURL, ""},
		{"uppercase digest", imageURL, strings.ToUpper(good)},
		{"flipped last char", imageURL, good[:63] + flip(good[63])},
		{"truncated", imageURL, good[:32]},
		{"different url", "http://example.com/b.png", good},
		{"trailing slash url", imageURL + "/", good},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, auth.Validate(tt.imageURL, tt.checksum))
		})
	}
}

func TestAuthenticator_DifferentKeysDisagree(t *testing.T) {
	a, err := NewAuthenticator([]byte("key-a"))
	require.NoError(t, err)
	b, err := NewAuthenticator([]byte("key-b"))
	require.NoError(t, err)

	imageURL := "http://example.com/a.png"
	assert.NotEqual(t, a.Derive(imageURL), b.Derive(imageURL))
	assert.False(t, b.Validate(imageURL, a.Derive(imageURL)))
}

func TestAuthenticator_KeyIsCopied(t *testing.T) {
	key := []byte("k")
	auth, err := NewAuthenticator(key)
	require.NoError(t, err)

	before := auth.Derive("http://example.com/a.png")
	key[0] = 'x'
	assert.Equal(t, before, auth.Derive("http://example.com/a.png"))
}

func TestAuthenticator_SignedQuery(t *testing.T) {
	auth, err := NewAuthenticator([]byte("k"))
	require.NoError(t, err)

	q, err := url.ParseQuery(auth.SignedQuery("http://example.com/a.png?size=large&x=1"))
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a.png?size=large&x=1", q.Get("url"))
	assert.True(t, auth.Validate(q.Get("url"), q.Get("checksum")))

	assert.Empty(t, auth.SignedQuery(""))
}

func flip(c byte) string {
	if c == '0' {
		return "1"
	}
	return "0"
}
