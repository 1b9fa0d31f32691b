package key_file_driver

import (
	"bytes"
	"context"
	"os"

	apperrors "github.com/robmiller/expurgate/utils/errors"
)

// KeyFileDriver reads the shared secret from a file on disk.
// Surrounding whitespace is trimmed so keys written with a trailing newline work.
type KeyFileDriver struct {
	path string
}

func NewKeyFileDriver(path string) *KeyFileDriver {
	return &KeyFileDriver{path: path}
}

// Path returns the key file location.
func (d *KeyFileDriver) Path() string {
	return d.path
}

func (d *KeyFileDriver) GetKey(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if d.path == "" {
		return nil, apperrors.NewSecretKeyUnavailableError("driver", "KeyFileDriver", "GetKey", nil, map[string]interface{}{
			"reason": "no key file configured",
		})
	}

	content, err := os.ReadFile(d.path)
	if err != nil {
		return nil, apperrors.NewSecretKeyUnavailableError("driver", "KeyFileDriver", "GetKey", err, map[string]interface{}{
			"path": d.path,
		})
	}

	key := bytes.TrimSpace(content)
	if len(key) == 0 {
		return nil, apperrors.NewSecretKeyUnavailableError("driver", "KeyFileDriver", "GetKey", nil, map[string]interface{}{
			"path":   d.path,
			"reason": "key file is empty",
		})
	}

	return key, nil
}
