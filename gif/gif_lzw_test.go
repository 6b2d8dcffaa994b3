package gif

import (
  "bytes"
  "compress/lzw"
  "io"
  "math/rand"
  "testing"

  "github.com/stretchr/testify/require"
)

// Splits an encoded image data block into the minimum code size and the de-blocked code stream.
func deblockImageData(t *testing.T, data []byte) (int, []byte) {
  t.Helper()
  require.NotEmpty(t, data)
  codeSize := int(data[0])
  payload := make([]byte, 0, len(data))
  pos := 1
  for {
    require.Less(t, pos, len(data), "missing block terminator")
    n := int(data[pos])
    pos++
    if n == 0 { break }
    require.LessOrEqual(t, pos + n, len(data), "truncated sub-block")
    payload = append(payload, data[pos:pos+n]...)
    pos += n
  }
  require.Equal(t, len(data), pos, "trailing data after block terminator")
  return codeSize, payload
}

// Decompresses an encoded image data block with the stock LZW reader.
func decodeImageData(t *testing.T, data []byte) []byte {
  t.Helper()
  codeSize, payload := deblockImageData(t, data)
  r := lzw.NewReader(bytes.NewReader(payload), lzw.LSB, codeSize)
  defer r.Close()
  out, err := io.ReadAll(r)
  require.NoError(t, err)
  return out
}


func TestLzwRoundTripUniform(t *testing.T) {
  pixels := make([]byte, 4096)
  for i := range pixels {
    pixels[i] = 5
  }
  decoded := decodeImageData(t, lzwEncode(pixels, 8))
  require.Equal(t, pixels, decoded)
}


// Random input produces short matches, exhausts all 12 bit codes and forces mid-stream table resets.
func TestLzwRoundTripRandom(t *testing.T) {
  rnd := rand.New(rand.NewSource(42))
  pixels := make([]byte, 50000)
  for i := range pixels {
    pixels[i] = byte(rnd.Intn(256))
  }
  decoded := decodeImageData(t, lzwEncode(pixels, 8))
  require.Equal(t, pixels, decoded)
}


func TestLzwRoundTripPatterned(t *testing.T) {
  pixels := make([]byte, 120000)
  for i := range pixels {
    pixels[i] = byte(i & 0xff)
  }
  decoded := decodeImageData(t, lzwEncode(pixels, 8))
  require.Equal(t, pixels, decoded)
}


func TestLzwRoundTripSinglePixel(t *testing.T) {
  pixels := []byte{7}
  decoded := decodeImageData(t, lzwEncode(pixels, 8))
  require.Equal(t, pixels, decoded)
}


func TestLzwBlockStructure(t *testing.T) {
  pixels := make([]byte, 10000)
  for i := range pixels {
    pixels[i] = byte(i % 13)
  }
  data := lzwEncode(pixels, 8)

  require.Equal(t, byte(8), data[0], "minimum code size")
  pos := 1
  for {
    n := int(data[pos])
    pos++
    if n == 0 { break }
    require.LessOrEqual(t, n, 254, "sub-block too large")
    pos += n
  }
  require.Equal(t, len(data), pos)
}


// Color depths below 2 must be clamped to a minimum code size of 2.
func TestLzwMinimumCodeSize(t *testing.T) {
  pixels := []byte{0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 0, 0}
  data := lzwEncode(pixels, 1)
  require.Equal(t, byte(2), data[0])
  decoded := decodeImageData(t, data)
  require.Equal(t, pixels, decoded)
}
