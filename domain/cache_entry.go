package domain

import (
	"mime"
	"strings"
	"time"
)

// ChecksumLength is the length of a hex-encoded HMAC-SHA256 checksum.
const ChecksumLength = 64

// CacheEntry is one stored image, addressed by the checksum of its source URL.
type CacheEntry struct {
	Checksum  string
	MimeType  string
	ImageData []byte
}

// InventoryRecord describes a stored entry at scan time. It is never persisted.
type InventoryRecord struct {
	Checksum     string
	LastModified time.Time
	SizeBytes    int64
}

// CachedImage is what the service hands back to the transport layer.
type CachedImage struct {
	Checksum string
	MimeType string
	Data     []byte
	// Fetched is true when the image was not in the cache and had to be retrieved.
	Fetched bool
}

// CacheLimits are the capacity thresholds used by the eviction policy.
type CacheLimits struct {
	MaxFiles     int
	MaxTotalSize int64
}

// IsValidChecksum reports whether s looks like a lowercase hex HMAC-SHA256 digest.
// Checksums double as storage keys so anything else is rejected before touching storage.
func IsValidChecksum(s string) bool {
	if len(s) != ChecksumLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// IsValidImageContentType validates if the content type is an image type
func IsValidImageContentType(contentType string) bool {
	mediaType := NormalizeMediaType(contentType)
	return strings.HasPrefix(mediaType, "image/") && len(mediaType) > len("image/")
}

// NormalizeMediaType lowercases a Content-Type header and drops its parameters.
func NormalizeMediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	// Malformed parameters: fall back to the part before the first ';'.
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// TotalSize sums the stored size of every record.
func TotalSize(inventory []InventoryRecord) int64 {
	var total int64
	for _, rec := range inventory {
		total += rec.SizeBytes
	}
	return total
}
