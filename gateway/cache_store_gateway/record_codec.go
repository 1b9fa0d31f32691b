package cache_store_gateway

import (
	"fmt"

	"github.com/robmiller/expurgate/domain"
	"github.com/robmiller/expurgate/utils/json"
)

// cacheRecord is the persisted form of an entry. ImageData is a []byte so it
// is written as standard base64.
type cacheRecord struct {
	MimeType  string `json:"mime_type"`
	ImageData []byte `json:"image_data"`
}

func encodeRecord(entry *domain.CacheEntry) ([]byte, error) {
	return json.Marshal(cacheRecord{
		MimeType:  entry.MimeType,
		ImageData: entry.ImageData,
	})
}

// decodeRecord rejects anything that could not have been produced by encodeRecord
// for a valid entry.
func decodeRecord(data []byte) (*cacheRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty record")
	}

	var rec cacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if rec.MimeType == "" {
		return nil, fmt.Errorf("record has no mime_type")
	}
	if !domain.IsValidImageContentType(rec.MimeType) {
		return nil, fmt.Errorf("record mime_type %q is not an image type", rec.MimeType)
	}
	if len(rec.ImageData) == 0 {
		return nil, fmt.Errorf("record has no image_data")
	}
	return &rec, nil
}
