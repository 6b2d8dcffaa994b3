package gif
// Provides base functionality for processing GIF frame filters.

import (
  "fmt"
  "image"
  "image/color"
  "image/draw"
  "runtime"
  "strconv"
  "strings"
  "sync"

  "github.com/InfinityTools/go-logging"
  "github.com/pbenner/threadpool"
)

// GifFilter provides functions for applying color or transform effects to individual frames.
type GifFilter interface {
  // GetName returns the name of the filter for identification purposes.
  GetName() string
  // GetOption returns the option of given name. Content of return value is filter specific.
  GetOption(key string) interface{}
  // SetOption adds or updates an option of the given key to the filter. Return value indicates whether option is valid.
  SetOption(key, value string) error
  // Process applies the filter effect to the specified GIF frame and returns the transformed GIF frame.
  // inFrames contains list of frames from a previous filter pass or initial unfiltered frames. It can be used
  // by filters that gather statistical data from multiple frames in the GIF.
  Process(frame GifFrame, inFrames []GifFrame) (GifFrame, error)
}

type optionsMap map[string]interface{}

type filterType struct {
  name    string
  create  func() GifFilter
}

type filterMap map[string]filterType


var filterTypes filterMap = make(filterMap)


// CreateFilter creates a new filter of the given type. Returns nil if the does not exist or cannot be created.
func (gif *GifFile) CreateFilter(filterName string) GifFilter {
  f, ok := filterTypes[filterName]
  if !ok { return nil }
  return f.create()
}


// Used internally. Applies the chain of filters to input frames and returns the result.
func (gif *GifFile) applyFilters() (out []GifFrame, err error) {
  // Preparing output frame list
  tmp := make([]GifFrame, len(gif.frames)) // working array of frames
  copy(tmp, gif.frames)
  out = make([]GifFrame, len(gif.frames)) // updated with resulting frames after each filter
  copy(out, gif.frames)

  // applying filter chain
  for filterIdx, filter := range gif.filters {
    msg := fmt.Sprintf("Applying filter %q", filter.GetName())
    logging.Log(msg)
    if GetMultiThreaded() {
      // Multi-threaded operation
      numThreads := runtime.NumCPU()
      pool := threadpool.New(numThreads, len(tmp))
      g := pool.NewJobGroup()
      var m sync.Mutex
      globalFilterIdx := 0
      for frameIdx, inFrame := range tmp {
        idx := frameIdx
        frm := inFrame
        err = pool.AddJob(g, func(pool threadpool.ThreadPool, erf func() error) error {
          if erf() != nil { return nil }
          outFrame, err := filter.Process(frm, out)
          if err != nil {
            err = fmt.Errorf("Filter #%d (%s) at frame %d: %v", filterIdx, filter.GetName(), idx, err);
            return err
          }
          tmp[idx] = outFrame
          func() {
            m.Lock()
            defer m.Unlock()
            logging.LogProgressDot(globalFilterIdx, len(tmp), 79 - len(msg))
            globalFilterIdx++
          }()
          return nil
        })
        if err != nil { break }
      }
      if err2 := pool.Wait(g); err2 != nil && err == nil { err = err2 }
      if err != nil {
        logging.OverridePrefix(false, false, false).Logln("")
        err = fmt.Errorf("Filter #%d (%s) at frame %d: %v", filterIdx, filter.GetName(), globalFilterIdx, err)
        return
      }
    } else {
      // Single-threaded operation
      for frameIdx, inFrame := range tmp {
        var outFrame GifFrame
        outFrame, err = filter.Process(inFrame, out)
        if err != nil {
          logging.OverridePrefix(false, false, false).Logln("")
          err = fmt.Errorf("Filter #%d (%s) at frame %d: %v", filterIdx, filter.GetName(), frameIdx, err)
          return
        }
        tmp[frameIdx] = outFrame
        logging.LogProgressDot(frameIdx, len(tmp), 79 - len(msg))
      }
    }
    logging.OverridePrefix(false, false, false).Logln("")
    copy(out, tmp)
  }

  return
}


// registerFilter registers a GifFilter for use by the encoder. It must be called by each filter once.
func registerFilter(name string, create func() GifFilter) {
  filterTypes[name] = filterType{name, create}
}

// cloneImage is a helper function that creates a copy of the specified image and returns it as image.RGBA or
// image.Paletted depending on source image format and flags.
// Set forceRGBA to always return an image of type RGBA. Otherwise paletted images will be cloned as paletted image.
// Always returns a valid Image object.
func cloneImage(img image.Image, forceRGBA bool) image.Image {
  if img == nil { return image.NewRGBA(image.Rect(0, 0, 1, 1)) }

  var imgOut draw.Image = nil
  b := img.Bounds()
  if imgPal, ok := img.(*image.Paletted); ok && !forceRGBA {
    imgPalNew := image.NewPaletted(b, make(color.Palette, len(imgPal.Palette)))
    copy(imgPalNew.Palette, imgPal.Palette)
    imgOut = imgPalNew
  } else {
    imgOut = image.NewRGBA(b)
  }
  draw.Draw(imgOut, b, img, b.Min, draw.Src)

  return imgOut
}

// A more specialized helper function that converts the given image into an image of image.RGBA type.
func ToRGBA(img image.Image) *image.RGBA {
  if img == nil { return nil }
  if imgRGBA, ok := img.(*image.RGBA); ok { return imgRGBA }
  imgOut := image.NewRGBA(img.Bounds())
  draw.Draw(imgOut, imgOut.Bounds(), img, image.ZP, draw.Src)
  return imgOut
}


// Converts string (oct/dec/hex) without range restrictions.
func parseInt(value string) (int, error) {
  ret, err := strconv.ParseInt(value, 0, 0)
  if err != nil { return 0, fmt.Errorf("not an int: %s", value) }
  return int(ret), nil
}

// Converts string (oct/dec/hex) into int in range [min, max] (both inclusive).
func parseIntRange(value string, min, max int) (int, error) {
  if max < min { min, max = max, min }
  ret, err := strconv.ParseInt(value, 0, 0)
  if err != nil { return 0, fmt.Errorf("not an int: %s", value) }
  if int(ret) < min || int(ret) > max { return 0, fmt.Errorf("not in range [%d, %d]: %s", min, max, value) }
  return int(ret), nil
}

// Converts string into float without range restrictions.
func parseFloat(value string) (float64, error) {
  ret, err := strconv.ParseFloat(value, 64)
  if err != nil { return 0, fmt.Errorf("not a float: %s", value) }
  return ret, nil
}

// Converts string into float in range [min, max] (both inclusive).
func parseFloatRange(value string, min, max float64) (float64, error) {
  if max < min { min, max = max, min }
  ret, err := strconv.ParseFloat(value, 64)
  if err != nil { return 0, fmt.Errorf("not a float: %s", value) }
  if ret < min || ret > max { return 0, fmt.Errorf("not in range [%v, %v]: %s", min, max, value) }
  return ret, nil
}

// Converts string into bool.
func parseBool(value string) (bool, error) {
  ret, err := strconv.ParseBool(value)
  if err != nil {
    n, err := strconv.ParseInt(value, 0, 0)
    if err != nil { return false, fmt.Errorf("not a boolean: %s", value) }
    ret = n != 0
  }
  return ret, nil
}

// Converts string with comma-separated values into sequence of ints.
func parseIntSeq(value string) ([]int, error) {
  seq := make([]int, 0)
  s := strings.Split(value, ",")
  for idx, item := range s {
    item = strings.TrimSpace(item)
    n, err := strconv.ParseInt(item, 0, 0)
    if err != nil { return seq, fmt.Errorf("item %d not an int: %s", idx, item) }
    seq = append(seq, int(n))
  }
  return seq, nil
}
