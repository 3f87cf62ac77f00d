//go:build cgo

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"

	"github.com/michaelkirk/geomedea/errs"
)

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (ZstdCodec) Decompress(data []byte, uncompressedLength int) ([]byte, error) {
	if len(data) == 0 {
		if uncompressedLength != 0 {
			return nil, fmt.Errorf("%w: empty page body, expected %d bytes", errs.ErrCompressionFailed, uncompressedLength)
		}
		return nil, nil
	}

	dst := make([]byte, 0, uncompressedLength)
	decompressed, err := gozstd.Decompress(dst, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrCompressionFailed, err)
	}
	if len(decompressed) != uncompressedLength {
		return nil, fmt.Errorf("%w: page claims %d bytes, decompressed to %d", errs.ErrCompressionFailed, uncompressedLength, len(decompressed))
	}
	return decompressed, nil
}
