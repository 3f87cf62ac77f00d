// Package compress implements geomedea's page compression codecs (C3): a
// Codec per format.CompressionKind, selected by the writer and recorded in
// the file header so every reader uses the matching decompressor.
package compress

import (
	"fmt"

	"github.com/michaelkirk/geomedea/format"
)

// Compressor compresses a page body.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a page body back to its uncompressed form.
// uncompressedLength comes from the page's frame header and lets an
// implementation size its output buffer up front rather than growing it.
type Decompressor interface {
	Decompress(data []byte, uncompressedLength int) ([]byte, error)
}

// Codec combines both directions for a single format.CompressionKind.
type Codec interface {
	Compressor
	Decompressor
	Kind() format.CompressionKind
}

var builtinCodecs = map[format.CompressionKind]Codec{
	format.CompressionNone: NoneCodec{},
	format.CompressionZstd: ZstdCodec{},
}

// ForKind returns the built-in Codec for kind.
func ForKind(kind format.CompressionKind) (Codec, error) {
	if codec, ok := builtinCodecs[kind]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("compress: unsupported compression kind: %s", kind)
}
