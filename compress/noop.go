package compress

import (
	"fmt"

	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/format"
)

// NoneCodec passes page bodies through unmodified. Its Decompress still
// honors the page header's uncompressed_length as a cheap corruption check.
type NoneCodec struct{}

var _ Codec = NoneCodec{}

func (NoneCodec) Kind() format.CompressionKind { return format.CompressionNone }

func (NoneCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (NoneCodec) Decompress(data []byte, uncompressedLength int) ([]byte, error) {
	if len(data) != uncompressedLength {
		return nil, fmt.Errorf("%w: page claims %d bytes, body has %d", errs.ErrCompressionFailed, uncompressedLength, len(data))
	}
	return data, nil
}
