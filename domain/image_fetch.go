package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ImageFetchResult represents the raw result of fetching an image
type ImageFetchResult struct {
	URL         string
	ContentType string
	Data        []byte
	// Size is the number of bytes the upstream delivered or declared. It can exceed
	// len(Data) when the body was cut off at the size limit.
	Size      int64
	FetchedAt time.Time
}

// ImageFetchOptions represents options for fetching an image
type ImageFetchOptions struct {
	MaxSize      int64         // Maximum size in bytes
	Timeout      time.Duration // Whole-request time budget
	MaxRedirects int
	UserAgent    string
}

// NewImageFetchOptions creates default ImageFetchOptions
func NewImageFetchOptions() *ImageFetchOptions {
	return &ImageFetchOptions{
		MaxSize:      500 * 1024,
		Timeout:      10 * time.Second,
		MaxRedirects: 5,
		UserAgent:    "expurgate/1.0",
	}
}

// ValidateImageURL validates if the URL is suitable for image fetching
func ValidateImageURL(rawURL string) (*url.URL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("only HTTP and HTTPS URLs are allowed")
	}

	if parsedURL.Host == "" {
		return nil, fmt.Errorf("URL must have a host")
	}

	return parsedURL, nil
}
