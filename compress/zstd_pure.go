//go:build !cgo

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/michaelkirk/geomedea/errs"
)

// zstdDecoderPool pools zstd decoders for reuse. klauspost/compress/zstd is
// designed for this: a decoder operates without allocations after warmup.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("compress: failed to create zstd decoder: %v", err))
		}
		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("compress: failed to create zstd encoder: %v", err))
		}
		return encoder
	},
}

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

func (ZstdCodec) Decompress(data []byte, uncompressedLength int) ([]byte, error) {
	if len(data) == 0 {
		if uncompressedLength != 0 {
			return nil, fmt.Errorf("%w: empty page body, expected %d bytes", errs.ErrCompressionFailed, uncompressedLength)
		}
		return nil, nil
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	dst := make([]byte, 0, uncompressedLength)
	decompressed, err := decoder.DecodeAll(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrCompressionFailed, err)
	}
	if len(decompressed) != uncompressedLength {
		return nil, fmt.Errorf("%w: page claims %d bytes, decompressed to %d", errs.ErrCompressionFailed, uncompressedLength, len(decompressed))
	}
	return decompressed, nil
}
