package key_port

import "context"

// KeyProviderPort supplies the shared secret used to authenticate URLs.
type KeyProviderPort interface {
	GetKey(ctx context.Context) ([]byte, error)
}
