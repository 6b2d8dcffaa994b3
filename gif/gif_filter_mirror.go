package gif
/*
Implements filter "mirror":
Options:
- horizontal: bool (false) - mirror horizontally
- vertical: bool (false) - mirror vertically
*/

import (
  "fmt"
  "image"
  "strings"
)

const (
  filterNameMirror = "mirror"
)

type FilterMirror struct {
  options     optionsMap
  opt_horizontal, opt_vertical string
}

// Register filter for use in gif creator.
func init() {
  registerFilter(filterNameMirror, NewFilterMirror)
}


// Creates a new Mirror filter.
func NewFilterMirror() GifFilter {
  f := FilterMirror{options: make(optionsMap), opt_horizontal: "horizontal", opt_vertical: "vertical"}
  f.SetOption(f.opt_horizontal, "false")
  f.SetOption(f.opt_vertical, "false")
  return &f
}

// GetName returns the name of the filter for identification purposes.
func (f *FilterMirror) GetName() string {
  return filterNameMirror
}

// GetOption returns the option of given name. Content of return value is filter specific.
func (f *FilterMirror) GetOption(key string) interface{} {
  v, ok := f.options[strings.ToLower(key)]
  if !ok { return nil }
  return v
}

// SetOption adds or updates an option of the given key to the filter.
func (f *FilterMirror) SetOption(key, value string) error {
  key = strings.ToLower(key)
  switch key {
    case f.opt_horizontal, f.opt_vertical:
      v, err := parseBool(value)
      if err != nil { return fmt.Errorf("Option %s: %v", key, err) }
      f.options[key] = v
  }
  return nil
}

// Process applies the filter effect to the specified GIF frame and returns the transformed GIF frame.
func (f *FilterMirror) Process(frame GifFrame, inFrames []GifFrame) (GifFrame, error) {
  frameOut := GifFrame{delay: frame.delay, img: nil}
  imgOut := cloneImage(frame.img, false)
  frameOut.img = imgOut
  err := f.apply(imgOut)
  return frameOut, err
}


// Used internally. Applies mirror effect. Assumes source image is of type image.RGBA or image.Paletted
func (f *FilterMirror) apply(img image.Image) error {
  options := []bool{f.GetOption(f.opt_horizontal).(bool), f.GetOption(f.opt_vertical).(bool)}
  if !(options[0] || options[1]) { return nil }

  if imgPal, ok := img.(*image.Paletted); ok {
    f.applyPaletted(imgPal, options)
  } else if imgRGBA, ok := img.(*image.RGBA); ok {
    f.applyRGBA(imgRGBA, options)
  }

  return nil
}


// Applies mirror to paletted image.
func (f *FilterMirror) applyPaletted(img *image.Paletted, options []bool) {
  if options[0] { // mirror horizontally
    x0, x1 := img.Bounds().Min.X, img.Bounds().Max.X
    y0, y1 := img.Bounds().Min.Y, img.Bounds().Max.Y
    for y := y0; y < y1; y++ {
      ofs := y * img.Stride + x0
      for left, right := x0, x1-1; left < right; {
        img.Pix[ofs+left], img.Pix[ofs+right] = img.Pix[ofs+right], img.Pix[ofs+left]
        left++
        right--
      }
    }
  }

  if options[1] { // mirror vertically
    x0, x1 := img.Bounds().Min.X, img.Bounds().Max.X
    y0, y1 := img.Bounds().Min.Y, img.Bounds().Max.Y
    size := x1 - x0
    buf := make([]byte, size)
    ofsTop := y0 * img.Stride + x0
    ofsBottom := (y1 - 1) * img.Stride + x0
    for ofsTop < ofsBottom {
      copy(buf, img.Pix[ofsTop:ofsTop+size])
      copy(img.Pix[ofsTop:ofsTop+size], img.Pix[ofsBottom:ofsBottom+size])
      copy(img.Pix[ofsBottom:ofsBottom+size], buf)
      ofsTop += img.Stride
      ofsBottom -= img.Stride
    }
  }
}

// Applies mirror to RGBA image.
func (f *FilterMirror) applyRGBA(img *image.RGBA, options []bool) {
  if options[0] { // mirror horizontally
    x0, x1 := img.Bounds().Min.X, img.Bounds().Max.X
    y0, y1 := img.Bounds().Min.Y, img.Bounds().Max.Y
    for y := y0; y < y1; y++ {
      ofs := y * img.Stride + (x0 * 4)
      for left, right := x0*4, (x1-1)*4; left < right; {
        img.Pix[ofs+left], img.Pix[ofs+right] = img.Pix[ofs+right], img.Pix[ofs+left]
        img.Pix[ofs+left+1], img.Pix[ofs+right+1] = img.Pix[ofs+right+1], img.Pix[ofs+left+1]
        img.Pix[ofs+left+2], img.Pix[ofs+right+2] = img.Pix[ofs+right+2], img.Pix[ofs+left+2]
        img.Pix[ofs+left+3], img.Pix[ofs+right+3] = img.Pix[ofs+right+3], img.Pix[ofs+left+3]
        left += 4
        right -= 4
      }
    }
  }

  if options[1] { // mirror vertically
    x0, x1 := img.Bounds().Min.X, img.Bounds().Max.X
    y0, y1 := img.Bounds().Min.Y, img.Bounds().Max.Y
    size := (x1 - x0) * 4
    buf := make([]byte, size)
    ofsTop := y0 * img.Stride + (x0 * 4)
    ofsBottom := (y1 - 1) * img.Stride + (x0 * 4)
    for ofsTop < ofsBottom {
      copy(buf, img.Pix[ofsTop:ofsTop+size])
      copy(img.Pix[ofsTop:ofsTop+size], img.Pix[ofsBottom:ofsBottom+size])
      copy(img.Pix[ofsBottom:ofsBottom+size], buf)
      ofsTop += img.Stride
      ofsBottom -= img.Stride
    }
  }
}
