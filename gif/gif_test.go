package gif

import (
  "bytes"
  "image"
  "image/color"
  "image/draw"
  "testing"

  stdgif "image/gif"

  "github.com/stretchr/testify/require"
)

// Creates a single-colored RGBA image of the given size.
func makeSolidImage(width, height int, col color.Color) image.Image {
  img := image.NewRGBA(image.Rect(0, 0, width, height))
  draw.Draw(img, img.Bounds(), image.NewUniform(col), image.ZP, draw.Src)
  return img
}


func TestCreateNewValidation(t *testing.T) {
  require.NoError(t, CreateNew(1, 1).Error())
  require.NoError(t, CreateNew(65535, 65535).Error())
  require.Error(t, CreateNew(0, 10).Error())
  require.Error(t, CreateNew(10, 0).Error())
  require.Error(t, CreateNew(65536, 10).Error())
  require.Error(t, CreateNew(10, -1).Error())
}


func TestSetDelay(t *testing.T) {
  g := CreateNew(4, 4)
  require.Equal(t, 100, g.GetDelay())
  g.SetDelay(250)
  require.Equal(t, 250, g.GetDelay())
  g.SetDelay(-1)
  require.Error(t, g.Error())
}


func TestSetQualityClamped(t *testing.T) {
  g := CreateNew(4, 4)
  require.Equal(t, 10, g.GetQuality())
  g.SetQuality(0)
  require.Equal(t, 1, g.GetQuality())
  g.SetQuality(100)
  require.Equal(t, 30, g.GetQuality())
  g.SetQuality(15)
  require.Equal(t, 15, g.GetQuality())
  require.NoError(t, g.Error())
}


func TestSetRepeat(t *testing.T) {
  g := CreateNew(4, 4)
  require.Equal(t, REPEAT_FOREVER, g.GetRepeat())
  g.SetRepeat(-5)
  require.Equal(t, REPEAT_NONE, g.GetRepeat())
  g.SetRepeat(3)
  require.Equal(t, 3, g.GetRepeat())
  require.NoError(t, g.Error())
  g.SetRepeat(65536)
  require.Error(t, g.Error())
}


func TestFrameManagement(t *testing.T) {
  g := CreateNew(4, 4)
  img := makeSolidImage(4, 4, color.RGBA{255, 0, 0, 255})

  require.Equal(t, 0, g.AddFrame(img))
  require.Equal(t, 1, g.AddFrame(img))
  require.Equal(t, 2, g.GetFrameLength())
  require.NoError(t, g.Error())

  g.DeleteFrame(0)
  require.Equal(t, 1, g.GetFrameLength())
  require.NoError(t, g.Error())

  // size mismatch must be rejected
  g.AddFrame(makeSolidImage(8, 8, color.RGBA{0, 255, 0, 255}))
  require.Error(t, g.Error())
  g.ClearError()

  // failed insertion must not leave a partial frame entry behind
  g.InsertFrame(0, makeSolidImage(2, 2, color.RGBA{0, 0, 255, 255}))
  require.Error(t, g.Error())
  g.ClearError()
  require.Equal(t, 1, g.GetFrameLength())
}


func TestFrameDelayAssignment(t *testing.T) {
  g := CreateNew(4, 4)
  img := makeSolidImage(4, 4, color.RGBA{128, 128, 128, 255})

  g.SetDelay(50)
  g.AddFrame(img)
  g.SetDelay(200)
  g.AddFrame(img)
  require.NoError(t, g.Error())
  require.Equal(t, 50, g.GetFrameDelay(0))
  require.Equal(t, 200, g.GetFrameDelay(1))
}


func TestEncodeWithoutFrames(t *testing.T) {
  g := CreateNew(4, 4)
  buf := g.Encode(nil)
  require.Nil(t, buf)
  require.EqualError(t, g.Error(), "No frames to encode")
}


func TestEncodeTwice(t *testing.T) {
  g := CreateNew(4, 4)
  g.AddFrame(makeSolidImage(4, 4, color.RGBA{200, 100, 50, 255}))
  buf := g.Encode(nil)
  require.NoError(t, g.Error())
  require.NotEmpty(t, buf)

  buf = g.Encode(nil)
  require.Nil(t, buf)
  require.EqualError(t, g.Error(), "GIF structure already encoded")
}


func TestEncodedStructure(t *testing.T) {
  g := CreateNew(8, 8)
  g.AddFrame(makeSolidImage(8, 8, color.RGBA{255, 0, 0, 255}))
  g.AddFrame(makeSolidImage(8, 8, color.RGBA{0, 0, 255, 255}))
  buf := g.Encode(nil)
  require.NoError(t, g.Error())

  // signature and logical screen descriptor
  require.Equal(t, "GIF89a", string(buf[0:6]))
  require.Equal(t, 8, int(buf[0x06]) | int(buf[0x07]) << 8)
  require.Equal(t, 8, int(buf[0x08]) | int(buf[0x09]) << 8)
  require.Equal(t, byte(0xf7), buf[0x0a])
  require.Equal(t, byte(0), buf[0x0b])
  require.Equal(t, byte(0), buf[0x0c])

  // global color table stays zeroed
  require.Equal(t, make([]byte, 768), buf[0x0d:0x30d])

  // looping application extension
  require.Equal(t, byte(0x21), buf[0x30d])
  require.Equal(t, byte(0xff), buf[0x30e])
  require.Equal(t, byte(11), buf[0x30f])
  require.Equal(t, "NETSCAPE2.0", string(buf[0x310:0x31b]))
  require.Equal(t, byte(3), buf[0x31b])
  require.Equal(t, byte(1), buf[0x31c])
  require.Equal(t, 0, int(buf[0x31d]) | int(buf[0x31e]) << 8)  // loop forever
  require.Equal(t, byte(0), buf[0x31f])

  // first frame starts with a graphic control extension
  require.Equal(t, byte(0x21), buf[0x320])
  require.Equal(t, byte(0xf9), buf[0x321])

  // trailer
  require.Equal(t, byte(0x3b), buf[len(buf)-1])
}


func TestEncodedStructureNoLoop(t *testing.T) {
  g := CreateNew(8, 8)
  g.SetRepeat(REPEAT_NONE)
  g.AddFrame(makeSolidImage(8, 8, color.RGBA{0, 255, 0, 255}))
  buf := g.Encode(nil)
  require.NoError(t, g.Error())

  // without looping the first frame block follows the global color table directly
  require.Equal(t, byte(0x21), buf[0x30d])
  require.Equal(t, byte(0xf9), buf[0x30e])
}


// Identical single-colored frames must compress to a tiny fraction of their raw pixel size.
func TestEncodedSizeUniformFrames(t *testing.T) {
  const numFrames = 10
  g := CreateNew(100, 100)
  for i := 0; i < numFrames; i++ {
    g.AddFrame(makeSolidImage(100, 100, color.RGBA{60, 120, 180, 255}))
  }
  buf := g.Encode(nil)
  require.NoError(t, g.Error())

  // fixed layout: header + screen descriptor + global table (781), loop extension (19),
  // per frame GCE + image descriptor + local table (786), trailer (1)
  streamTotal := len(buf) - 781 - 19 - numFrames * 786 - 1
  require.Greater(t, streamTotal, 0)
  require.Less(t, streamTotal / numFrames, 1000, "compressed stream per 10000-pixel frame")
  require.Less(t, len(buf), 12000)

  data, err := stdgif.DecodeAll(bytes.NewReader(buf))
  require.NoError(t, err)
  require.Len(t, data.Image, numFrames)
}


func TestRoundTripDecode(t *testing.T) {
  colors := []color.RGBA{ {255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255} }

  g := CreateNew(16, 16)
  g.SetDelay(120)
  g.SetRepeat(2)
  for _, col := range colors {
    g.AddFrame(makeSolidImage(16, 16, col))
  }

  var progress []int
  buf := g.Encode(func(percent int) { progress = append(progress, percent) })
  require.NoError(t, g.Error())
  require.Equal(t, []int{33, 66, 100}, progress)

  data, err := stdgif.DecodeAll(bytes.NewReader(buf))
  require.NoError(t, err)
  require.Equal(t, 16, data.Config.Width)
  require.Equal(t, 16, data.Config.Height)
  require.Equal(t, 2, data.LoopCount)
  require.Len(t, data.Image, len(colors))

  for idx, col := range colors {
    require.Equal(t, 12, data.Delay[idx])  // 120 ms in 1/100 sec

    r, gr, b, _ := data.Image[idx].At(4, 4).RGBA()
    require.LessOrEqual(t, absDiff(byte(r >> 8), col.R), 32, "frame %d red", idx)
    require.LessOrEqual(t, absDiff(byte(gr >> 8), col.G), 32, "frame %d green", idx)
    require.LessOrEqual(t, absDiff(byte(b >> 8), col.B), 32, "frame %d blue", idx)
  }
}


func TestRoundTripLoopModes(t *testing.T) {
  encode := func(repeat int) *stdgif.GIF {
    g := CreateNew(8, 8)
    g.SetRepeat(repeat)
    g.AddFrame(makeSolidImage(8, 8, color.RGBA{100, 100, 100, 255}))
    buf := g.Encode(nil)
    require.NoError(t, g.Error())
    data, err := stdgif.DecodeAll(bytes.NewReader(buf))
    require.NoError(t, err)
    return data
  }

  require.Equal(t, 0, encode(REPEAT_FOREVER).LoopCount)
  require.Equal(t, -1, encode(REPEAT_NONE).LoopCount)
  require.Equal(t, 5, encode(5).LoopCount)
}
