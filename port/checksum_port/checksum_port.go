package checksum_port

//go:generate go run go.uber.org/mock/mockgen -source=checksum_port.go -destination=../../mocks/mock_checksum_port.go -package=mocks

// ChecksumPort derives and validates URL checksums under the process secret.
type ChecksumPort interface {
	Derive(imageURL string) string
	Validate(imageURL, checksum string) bool
}
