package page

import (
	"fmt"

	"github.com/michaelkirk/geomedea/compress"
	"github.com/michaelkirk/geomedea/errs"
	"github.com/michaelkirk/geomedea/internal/pool"
)

// Encode frames featureBytes (the concatenated encodings of a page's
// features) behind an uncompressed frame Header, compressing the body with
// codec if it isn't compress.NoneCodec.
func Encode(codec compress.Codec, featureCount int, featureBytes []byte) ([]byte, error) {
	body, err := codec.Compress(featureBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrCompressionFailed, err)
	}

	h := Header{UncompressedLength: uint64(len(featureBytes)), FeatureCount: uint64(featureCount)}
	buf := pool.GetPageBuffer()
	defer pool.PutPageBuffer(buf)

	buf.B = h.Encode(buf.B)
	buf.B = append(buf.B, body...)

	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out, nil
}

// Decode reads a page's Header and decompresses its body back to the
// concatenated feature bytes, using codec matching the file's declared
// compression kind.
func Decode(codec compress.Codec, data []byte) (Header, []byte, int, error) {
	h, off, err := DecodeHeader(data)
	if err != nil {
		return Header{}, nil, 0, err
	}
	if err := validateNonEmpty(h); err != nil {
		return Header{}, nil, 0, err
	}

	// The frame's remaining bytes (after the two-varint header) are the
	// entire compressed/raw body; the caller is expected to have already
	// sliced data down to exactly this page's byte range.
	body := data[off:]
	featureBytes, err := codec.Decompress(body, int(h.UncompressedLength))
	if err != nil {
		return Header{}, nil, 0, err
	}
	return h, featureBytes, off + len(body), nil
}
