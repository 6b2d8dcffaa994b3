package graphics

import (
  "bytes"
  "image"
  "image/color"
  "image/draw"
  "image/gif"
  "image/jpeg"
  "image/png"
  "testing"

  "github.com/stretchr/testify/require"
  "golang.org/x/image/bmp"
)

// Creates a single-colored image of the given size.
func makeSolidImage(width, height int, col color.Color) *image.RGBA {
  img := image.NewRGBA(image.Rect(0, 0, width, height))
  draw.Draw(img, img.Bounds(), image.NewUniform(col), image.ZP, draw.Src)
  return img
}

func makeSolidPaletted(width, height int, col color.Color) *image.Paletted {
  img := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{col, color.RGBA{0, 0, 0, 255}})
  for i := range img.Pix {
    img.Pix[i] = 0
  }
  return img
}


func TestImportPNG(t *testing.T) {
  var buf bytes.Buffer
  require.NoError(t, png.Encode(&buf, makeSolidImage(8, 6, color.RGBA{255, 0, 0, 255})))

  g := Import(bytes.NewReader(buf.Bytes()))
  require.NoError(t, g.Error())
  require.Equal(t, TYPE_PNG, g.GetImageType())
  require.Equal(t, 1, g.GetImageLength())
  require.Equal(t, 0, g.GetDelay(0))

  img := g.GetImage(0)
  require.NotNil(t, img)
  require.Equal(t, 8, img.Bounds().Dx())
  require.Equal(t, 6, img.Bounds().Dy())
}


func TestImportBMP(t *testing.T) {
  var buf bytes.Buffer
  require.NoError(t, bmp.Encode(&buf, makeSolidImage(4, 4, color.RGBA{0, 128, 255, 255})))

  g := Import(bytes.NewReader(buf.Bytes()))
  require.NoError(t, g.Error())
  require.Equal(t, TYPE_BMP, g.GetImageType())
  require.Equal(t, 1, g.GetImageLength())
}


func TestImportJPG(t *testing.T) {
  var buf bytes.Buffer
  require.NoError(t, jpeg.Encode(&buf, makeSolidImage(4, 4, color.RGBA{40, 80, 120, 255}), nil))

  // the stock encoder emits no APP0/JFIF segment after the SOI marker; detection must not depend on one
  require.Equal(t, []byte{0xff, 0xd8}, buf.Bytes()[:2])
  require.NotEqual(t, byte(0xe0), buf.Bytes()[3])

  g := Import(bytes.NewReader(buf.Bytes()))
  require.NoError(t, g.Error())
  require.Equal(t, TYPE_JPG, g.GetImageType())
  require.Equal(t, 1, g.GetImageLength())
}


func TestImportAnimatedGIF(t *testing.T) {
  anim := &gif.GIF{
    Image: []*image.Paletted{
      makeSolidPaletted(8, 8, color.RGBA{255, 0, 0, 255}),
      makeSolidPaletted(8, 8, color.RGBA{0, 255, 0, 255}),
    },
    Delay: []int{10, 20},
    Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
  }
  var buf bytes.Buffer
  require.NoError(t, gif.EncodeAll(&buf, anim))

  g := Import(bytes.NewReader(buf.Bytes()))
  require.NoError(t, g.Error())
  require.Equal(t, TYPE_GIF, g.GetImageType())
  require.Equal(t, 2, g.GetImageLength())
  require.Equal(t, 100, g.GetDelay(0))
  require.Equal(t, 200, g.GetDelay(1))

  // frames are composited onto the global canvas
  img := g.GetImage(1)
  require.Equal(t, 8, img.Bounds().Dx())
  r, gr, b, _ := img.At(2, 2).RGBA()
  require.Equal(t, uint32(0), r)
  require.Equal(t, uint32(0xffff), gr)
  require.Equal(t, uint32(0), b)
}


func TestImageIndexOutOfRange(t *testing.T) {
  var buf bytes.Buffer
  require.NoError(t, png.Encode(&buf, makeSolidImage(4, 4, color.RGBA{255, 255, 255, 255})))

  g := Import(bytes.NewReader(buf.Bytes()))
  require.NoError(t, g.Error())
  require.Equal(t, 1, g.GetImageLength())

  require.Nil(t, g.GetImage(1))
  require.Nil(t, g.GetImage(-1))
  require.Equal(t, 0, g.GetDelay(1))
  require.Equal(t, 0, g.GetDelay(-1))
}


func TestImportUnknownFormat(t *testing.T) {
  g := Import(bytes.NewReader([]byte("not an image at all")))
  require.Error(t, g.Error())
  require.Equal(t, TYPE_UNKNOWN, g.GetImageType())
}


func TestImportNilSource(t *testing.T) {
  g := Import(nil)
  require.Error(t, g.Error())
}
