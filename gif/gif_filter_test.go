package gif

import (
  "image"
  "image/color"
  "testing"

  "github.com/stretchr/testify/require"
)

func TestCreateFilterByName(t *testing.T) {
  g := CreateNew(4, 4)
  for _, name := range []string{"null", "invert", "brightness", "mirror"} {
    f := g.CreateFilter(name)
    require.NotNil(t, f, "filter %q", name)
    require.Equal(t, name, f.GetName())
  }
  require.Nil(t, g.CreateFilter("does-not-exist"))
}


func TestFilterOptionValidation(t *testing.T) {
  f := NewFilterInvert()
  require.NoError(t, f.SetOption("red", "false"))
  require.Error(t, f.SetOption("red", "maybe"))

  f = NewFilterBrightness()
  require.NoError(t, f.SetOption("level", "-128"))
  require.Error(t, f.SetOption("level", "300"))
  require.Error(t, f.SetOption("level", "dark"))

  f = NewFilterMirror()
  require.NoError(t, f.SetOption("horizontal", "1"))
  require.Error(t, f.SetOption("vertical", "sideways"))
}


func TestFilterNullCopies(t *testing.T) {
  img := image.NewRGBA(image.Rect(0, 0, 2, 2))
  img.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
  frame := GifFrame{delay: 150, img: img}

  f := NewFilterNull()
  out, err := f.Process(frame, []GifFrame{frame})
  require.NoError(t, err)
  require.Equal(t, 150, out.delay)
  require.NotSame(t, img, out.img)
  require.Equal(t, img.Pix, out.img.(*image.RGBA).Pix)
}


func TestFilterInvert(t *testing.T) {
  img := image.NewRGBA(image.Rect(0, 0, 2, 1))
  img.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
  img.SetRGBA(1, 0, color.RGBA{255, 0, 128, 255})
  frame := GifFrame{delay: 100, img: img}

  f := NewFilterInvert()
  out, err := f.Process(frame, []GifFrame{frame})
  require.NoError(t, err)

  imgOut := out.img.(*image.RGBA)
  require.Equal(t, color.RGBA{245, 235, 225, 255}, imgOut.RGBAAt(0, 0))
  require.Equal(t, color.RGBA{0, 255, 127, 255}, imgOut.RGBAAt(1, 0))

  // channel selection
  f = NewFilterInvert()
  require.NoError(t, f.SetOption("green", "false"))
  require.NoError(t, f.SetOption("blue", "false"))
  out, err = f.Process(frame, []GifFrame{frame})
  require.NoError(t, err)
  require.Equal(t, color.RGBA{245, 20, 30, 255}, out.img.(*image.RGBA).RGBAAt(0, 0))
}


func TestFilterBrightness(t *testing.T) {
  img := image.NewRGBA(image.Rect(0, 0, 1, 1))
  img.SetRGBA(0, 0, color.RGBA{100, 150, 200, 255})
  frame := GifFrame{delay: 100, img: img}

  f := NewFilterBrightness()
  require.NoError(t, f.SetOption("level", "51"))
  out, err := f.Process(frame, []GifFrame{frame})
  require.NoError(t, err)
  require.Equal(t, color.RGBA{151, 201, 251, 255}, out.img.(*image.RGBA).RGBAAt(0, 0))

  // clamping at both ends
  f = NewFilterBrightness()
  require.NoError(t, f.SetOption("level", "255"))
  out, err = f.Process(frame, []GifFrame{frame})
  require.NoError(t, err)
  require.Equal(t, color.RGBA{255, 255, 255, 255}, out.img.(*image.RGBA).RGBAAt(0, 0))

  f = NewFilterBrightness()
  require.NoError(t, f.SetOption("level", "-255"))
  out, err = f.Process(frame, []GifFrame{frame})
  require.NoError(t, err)
  require.Equal(t, color.RGBA{0, 0, 0, 255}, out.img.(*image.RGBA).RGBAAt(0, 0))

  // level 0 keeps pixels untouched
  f = NewFilterBrightness()
  out, err = f.Process(frame, []GifFrame{frame})
  require.NoError(t, err)
  require.Equal(t, color.RGBA{100, 150, 200, 255}, out.img.(*image.RGBA).RGBAAt(0, 0))
}


func TestFilterMirror(t *testing.T) {
  img := image.NewRGBA(image.Rect(0, 0, 3, 2))
  img.SetRGBA(0, 0, color.RGBA{1, 0, 0, 255})
  img.SetRGBA(1, 0, color.RGBA{2, 0, 0, 255})
  img.SetRGBA(2, 0, color.RGBA{3, 0, 0, 255})
  img.SetRGBA(0, 1, color.RGBA{4, 0, 0, 255})
  img.SetRGBA(1, 1, color.RGBA{5, 0, 0, 255})
  img.SetRGBA(2, 1, color.RGBA{6, 0, 0, 255})
  frame := GifFrame{delay: 100, img: img}

  f := NewFilterMirror()
  require.NoError(t, f.SetOption("horizontal", "true"))
  out, err := f.Process(frame, []GifFrame{frame})
  require.NoError(t, err)
  imgOut := out.img.(*image.RGBA)
  require.Equal(t, byte(3), imgOut.RGBAAt(0, 0).R)
  require.Equal(t, byte(2), imgOut.RGBAAt(1, 0).R)
  require.Equal(t, byte(1), imgOut.RGBAAt(2, 0).R)

  f = NewFilterMirror()
  require.NoError(t, f.SetOption("vertical", "true"))
  out, err = f.Process(frame, []GifFrame{frame})
  require.NoError(t, err)
  imgOut = out.img.(*image.RGBA)
  require.Equal(t, byte(4), imgOut.RGBAAt(0, 0).R)
  require.Equal(t, byte(1), imgOut.RGBAAt(0, 1).R)
}


func TestApplyFilterChain(t *testing.T) {
  g := CreateNew(2, 2)
  img := image.NewRGBA(image.Rect(0, 0, 2, 2))
  img.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
  img.SetRGBA(1, 0, color.RGBA{40, 50, 60, 255})
  img.SetRGBA(0, 1, color.RGBA{70, 80, 90, 255})
  img.SetRGBA(1, 1, color.RGBA{100, 110, 120, 255})
  g.AddFrame(img)

  f := g.CreateFilter("invert")
  require.NotNil(t, f)
  require.Equal(t, 0, g.AddFilter(f))
  require.NoError(t, g.Error())

  frames, err := g.applyFilters()
  require.NoError(t, err)
  require.Len(t, frames, 1)
  require.Equal(t, color.RGBA{245, 235, 225, 255}, frames[0].img.(*image.RGBA).RGBAAt(0, 0))

  // source frame stays untouched
  require.Equal(t, color.RGBA{10, 20, 30, 255}, img.RGBAAt(0, 0))
}


func TestFilterManagement(t *testing.T) {
  g := CreateNew(4, 4)
  f1 := g.CreateFilter("null")
  f2 := g.CreateFilter("invert")

  require.Equal(t, 0, g.AddFilter(f1))
  require.Equal(t, 1, g.AddFilter(f2))
  require.Equal(t, 2, g.GetFilterLength())
  require.Equal(t, "invert", g.GetFilter(1).GetName())

  g.DeleteFilter(0)
  require.Equal(t, 1, g.GetFilterLength())
  require.Equal(t, "invert", g.GetFilter(0).GetName())
  require.NoError(t, g.Error())

  g.InsertFilter(0, f1)
  require.Equal(t, "null", g.GetFilter(0).GetName())
  require.NoError(t, g.Error())

  require.Equal(t, -1, g.AddFilter(nil))
}
