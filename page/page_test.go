package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkirk/geomedea/compress"
)

func TestHeader_EncodeDecode(t *testing.T) {
	h := Header{UncompressedLength: 4096, FeatureCount: 12}
	buf := h.Encode(nil)
	got, n, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, h, got)
}

func TestEncodeDecode_NoneCodec(t *testing.T) {
	featureBytes := []byte("concatenated feature encodings go here")
	framed, err := Encode(compress.NoneCodec{}, 3, featureBytes)
	require.NoError(t, err)

	h, body, n, err := Decode(compress.NoneCodec{}, framed)
	require.NoError(t, err)
	assert.Equal(t, len(framed), n)
	assert.Equal(t, uint64(3), h.FeatureCount)
	assert.Equal(t, featureBytes, body)
}

func TestEncodeDecode_ZstdCodec(t *testing.T) {
	featureBytes := make([]byte, 2000)
	for i := range featureBytes {
		featureBytes[i] = byte(i % 7)
	}
	framed, err := Encode(compress.ZstdCodec{}, 50, featureBytes)
	require.NoError(t, err)

	h, body, n, err := Decode(compress.ZstdCodec{}, framed)
	require.NoError(t, err)
	assert.Equal(t, len(framed), n)
	assert.Equal(t, uint64(50), h.FeatureCount)
	assert.Equal(t, featureBytes, body)
}

func TestDecode_RejectsZeroFeatureCount(t *testing.T) {
	h := Header{UncompressedLength: 0, FeatureCount: 0}
	buf := h.Encode(nil)
	_, _, _, err := Decode(compress.NoneCodec{}, buf)
	require.Error(t, err)
}
