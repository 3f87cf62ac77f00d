package compress

import "github.com/michaelkirk/geomedea/format"

// ZstdCodec compresses page bodies with Zstandard. Its Compress/Decompress
// methods live in zstd_pure.go or zstd_cgo.go, chosen by build tag so a
// cgo-free build still works.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func (ZstdCodec) Kind() format.CompressionKind { return format.CompressionZstd }
