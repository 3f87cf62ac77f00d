package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkirk/geomedea/format"
)

func TestForKind_ReturnsRegisteredCodecs(t *testing.T) {
	none, err := ForKind(format.CompressionNone)
	require.NoError(t, err)
	assert.Equal(t, format.CompressionNone, none.Kind())

	zstd, err := ForKind(format.CompressionZstd)
	require.NoError(t, err)
	assert.Equal(t, format.CompressionZstd, zstd.Kind())
}

func TestForKind_RejectsUnknown(t *testing.T) {
	_, err := ForKind(format.CompressionKind(99))
	require.Error(t, err)
}

func TestNoneCodec_RoundTrip(t *testing.T) {
	data := []byte("some page body bytes")
	c := NoneCodec{}
	compressed, err := c.Compress(data)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, compressed))

	decompressed, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}

func TestNoneCodec_RejectsLengthMismatch(t *testing.T) {
	c := NoneCodec{}
	_, err := c.Decompress([]byte("abc"), 10)
	require.Error(t, err)
}

func TestZstdCodec_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("geomedea page body "), 200)
	c := ZstdCodec{}
	compressed, err := c.Compress(data)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(data))

	decompressed, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}

func TestZstdCodec_RejectsCorruptInput(t *testing.T) {
	c := ZstdCodec{}
	_, err := c.Decompress([]byte{0xff, 0xff, 0xff, 0xff}, 10)
	require.Error(t, err)
}
