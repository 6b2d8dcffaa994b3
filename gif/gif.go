/*
Package gif deals with animated GIF file creation.

GIF Creator is released under the BSD 2-clause license. See LICENSE in the project's root folder for more details.
*/
package gif

import (
  "fmt"
  "image"
  "io"
)

const (
  // Animation repeat modes (see SetRepeat)
  REPEAT_NONE     = -1    // play animation only once
  REPEAT_FOREVER  = 0     // loop animation indefinitely

  // Used internally. GIF signature and version strings
  sig_gif   = "GIF"
  ver_89a   = "89a"

  // Used internally. Default settings for newly created GIF structures
  def_delay   = 100
  def_quality = 10
)

// ProgressFunc is called after each fully encoded frame with the overall progress in percent.
type ProgressFunc func(percent int)

// Defines a single GIF frame structure.
type GifFrame struct {
  delay int                 // frame delay in milliseconds
  img image.Image           // the GIF frame pixel data
}

// Main GIF structure
type GifFile struct {
  // part of the GIF structure
  width, height int         // global canvas dimension, shared by all frames
  frames        []GifFrame  // list of frame definitions
  filters       []GifFilter // chain of filters that will be applied on encode (see gif_filter.go)

  // internal settings
  err           error     // stores error from last GIF-related operation
  delay         int       // delay in ms assigned to subsequently added frames
  quality       int       // quantizer sampling factor [1, 30]
  repeat        int       // repeat mode (see REPEAT_xxx constants)
  encoded       bool      // set after a successful Encode or Export
}


// CreateNew initializes an empty GIF structure of the given canvas size and returns a pointer to it.
// Every frame added later must match this size exactly. Use function Error() to check if the
// dimension was accepted.
func CreateNew(width, height int) *GifFile {
  gif := GifFile{ width: width,
                  height: height,
                  frames: make([]GifFrame, 0),
                  filters: make([]GifFilter, 0),
                  err: nil,
                  delay: def_delay,
                  quality: def_quality,
                  repeat: REPEAT_FOREVER,
                  encoded: false,
                }
  if width < 1 || width > 65535 || height < 1 || height > 65535 {
    gif.err = fmt.Errorf("CreateNew: Size out of range (w=%d,h=%d)", width, height)
  }
  return &gif
}


// Export encodes the current GIF structure and writes it to the buffer addressed by the given Writer object.
// The progress callback may be nil. Does nothing if the GifFile is in an invalid state (see Error() function).
func (gif *GifFile) Export(w io.Writer, progress ProgressFunc) {
  if gif.err != nil { return }
  buf := gif.Encode(progress)
  if gif.err != nil { return }
  _, gif.err = w.Write(buf)
}


// Error returns the error state of the most recent operation on the GifFile. Use ClearError() function to clear the
// current error state.
func (gif *GifFile) Error() error {
  return gif.err
}


// ClearError clears the error state from the last GifFile operation. This function must be called for subsequent
// operations to work correctly.
//
// Use this function with care. Functions may leave the GifFile object in an incomplete state after returning
// unsuccessfully.
func (gif *GifFile) ClearError() {
  gif.err = nil
}


// GetWidth returns the canvas width shared by all frames. Operation is skipped if error state is set.
func (gif *GifFile) GetWidth() int {
  if gif.err != nil { return 0 }
  return gif.width
}


// GetHeight returns the canvas height shared by all frames. Operation is skipped if error state is set.
func (gif *GifFile) GetHeight() int {
  if gif.err != nil { return 0 }
  return gif.height
}


// GetDelay returns the display duration in milliseconds assigned to subsequently added frames.
// Operation is skipped if error state is set.
func (gif *GifFile) GetDelay() int {
  if gif.err != nil { return 0 }
  return gif.delay
}


// SetDelay sets the display duration in milliseconds for frames added afterwards. The value is stored with
// millisecond precision and rounded to hundredths of a second on encode. Default: 100.
// Operation is skipped if error state is set.
func (gif *GifFile) SetDelay(ms int) {
  if gif.err != nil { return }
  if ms < 0 { gif.err = fmt.Errorf("SetDelay: Value out of range (%d)", ms); return }
  gif.delay = ms
}


// GetQuality returns the quantizer sampling factor used to generate the frame palettes.
// Operation is skipped if error state is set.
func (gif *GifFile) GetQuality() int {
  if gif.err != nil { return 0 }
  return gif.quality
}


// SetQuality sets the quantizer sampling factor. 1 samples every pixel and produces the best palette, greater
// values skip pixels and trade quality for speed. Values outside [1, 30] are clamped. Default: 10.
// Operation is skipped if error state is set.
func (gif *GifFile) SetQuality(value int) {
  if gif.err != nil { return }
  if value < 1 { value = 1 }
  if value > 30 { value = 30 }
  gif.quality = value
}


// GetRepeat returns the number of times the animation repeats. Operation is skipped if error state is set.
func (gif *GifFile) GetRepeat() int {
  if gif.err != nil { return 0 }
  return gif.repeat
}


// SetRepeat sets the number of times the animation repeats. Specify REPEAT_NONE to play the animation only once,
// REPEAT_FOREVER to loop indefinitely, or a positive count for a fixed number of iterations.
// Default: REPEAT_FOREVER. Operation is skipped if error state is set.
func (gif *GifFile) SetRepeat(value int) {
  if gif.err != nil { return }
  if value < REPEAT_NONE { value = REPEAT_NONE }
  if value > 65535 { gif.err = fmt.Errorf("SetRepeat: Value out of range (%d)", value); return }
  gif.repeat = value
}


// GetFrameLength returns the number of frames in the current GIF structure. Operation is skipped if error state is set.
func (gif *GifFile) GetFrameLength() int {
  if gif.err != nil { return 0 }
  return len(gif.frames)
}


// GetFrameImage returns the image object of the frame at given index. Operation is skipped if error state is set.
func (gif *GifFile) GetFrameImage(index int) image.Image {
  if gif.err != nil { return nil }
  if index < 0 || index >= len(gif.frames) { gif.err = fmt.Errorf("GetFrameImage: Index out of range (%d)", index); return nil }
  return gif.frames[index].img
}


// GetFrameDelay returns the display duration in milliseconds of the frame at given index.
// Operation is skipped if error state is set.
func (gif *GifFile) GetFrameDelay(index int) int {
  if gif.err != nil { return 0 }
  if index < 0 || index >= len(gif.frames) { gif.err = fmt.Errorf("GetFrameDelay: Index out of range (%d)", index); return 0 }
  return gif.frames[index].delay
}


// SetFrame replaces the frame at the given frame index with the provided image. Operation is skipped if error state
// is set.
func (gif *GifFile) SetFrame(index int, img image.Image) {
  if gif.err != nil { return }
  if index < 0 || index >= len(gif.frames) { gif.err = fmt.Errorf("SetFrame: Index out of range (%d)", index); return }
  if img == nil { gif.err = fmt.Errorf("SetFrame: Frame is undefined"); return }
  if img.Bounds().Dx() != gif.width || img.Bounds().Dy() != gif.height { gif.err = fmt.Errorf("SetFrame %d: Size mismatch (w=%d,h=%d, expected w=%d,h=%d)", index, img.Bounds().Dx(), img.Bounds().Dy(), gif.width, gif.height); return }

  gif.frames[index].img = img
}


// DeleteFrame removes the frame entry at the given index. Operation is skipped if error state is set.
func (gif *GifFile) DeleteFrame(index int) {
  if gif.err != nil { return }
  if index < 0 || index >= len(gif.frames) { gif.err = fmt.Errorf("DeleteFrame: Index out of range (%d)", index); return }

  for idx := index + 1; idx < len(gif.frames); idx++ {
    gif.frames[idx - 1] = gif.frames[idx]
  }
  gif.frames = gif.frames[:len(gif.frames) - 1]
}


// InsertFrame inserts a new frame entry at the given position and assigns it the specified image.
// The image size must match the canvas size exactly. index must be in range [0, GetFrameLength()].
// Operation is skipped if error state is set.
func (gif *GifFile) InsertFrame(index int, img image.Image) {
  if gif.err != nil { return }
  if index < 0 || index > len(gif.frames) { gif.err = fmt.Errorf("InsertFrame: Index out of range (%d)", index); return }

  gif.frames = append(gif.frames, make([]GifFrame, 1)...)
  for idx := len(gif.frames) - 1; idx > index; idx-- {
    gif.frames[idx] = gif.frames[idx - 1]
  }
  gif.frames[index].delay = gif.delay
  gif.SetFrame(index, img)
  if gif.err != nil {
    err := gif.err
    gif.err = nil
    gif.DeleteFrame(index)
    gif.err = err
    return
  }
}


// AddFrame appends a new frame entry to the list of frames. The image size must match the canvas size exactly.
// The frame is assigned the current delay setting (see SetDelay). Returns the index of the added frame.
// Operation is skipped if error state is set.
func (gif *GifFile) AddFrame(img image.Image) int {
  if gif.err != nil { return 0 }
  retVal := len(gif.frames)
  gif.InsertFrame(retVal, img)
  return retVal
}


// GetFilterLength returns the number of explicitly stored filter entries. Operation is skipped if error state is set.
func (gif *GifFile) GetFilterLength() int {
  if gif.err != nil { return 0 }
  return len(gif.filters)
}


// GetFilter returns the filter at the specified index. Operation is skipped if error state is set.
func (gif *GifFile) GetFilter(index int) GifFilter {
  if gif.err != nil { return nil }
  if index < 0 || index >= len(gif.filters) { gif.err = fmt.Errorf("GetFilter: Index out of range (%d)", index); return nil }

  return gif.filters[index]
}


// SetFilter replaces the filter at the given index with the specified filter.
// Operation is skipped if error state is set.
func (gif *GifFile) SetFilter(index int, filter GifFilter) {
  if gif.err != nil { return }
  if index < 0 || index >= len(gif.filters) { gif.err = fmt.Errorf("SetFilter: Index out of range (%d)", index); return }
  if filter == nil { gif.err = fmt.Errorf("SetFilter: Filter is undefined"); return }

  gif.filters[index] = filter
}


// DeleteFilter removes the filter entry at the given index. Operation is skipped if error state is set.
func (gif *GifFile) DeleteFilter(index int) {
  if gif.err != nil { return }
  if index < 0 || index >= len(gif.filters) { gif.err = fmt.Errorf("DeleteFilter: Index out of range (%d)", index); return }

  for idx := index + 1; idx < len(gif.filters); idx++ {
    gif.filters[idx - 1] = gif.filters[idx]
  }
  gif.filters = gif.filters[:len(gif.filters) - 1]
}


// InsertFilter inserts a new filter at the given index. index must be in range [0, GetFilterLength()].
// Operation is skipped if error state is set.
func (gif *GifFile) InsertFilter(index int, filter GifFilter) {
  if gif.err != nil { return }
  if filter == nil || index < 0 || index > len(gif.filters) { gif.err = fmt.Errorf("InsertFilter: Index out of range (%d)", index); return }

  gif.filters = append(gif.filters, nil)
  for idx := len(gif.filters) - 1; idx > index; idx-- {
    gif.filters[idx] = gif.filters[idx - 1]
  }
  gif.filters[index] = filter
}


// AddFilter appends the specified filter to the filter list and returns filter index. Operation is skipped if error
// state is set.
func (gif *GifFile) AddFilter(filter GifFilter) int {
  if gif.err != nil { return -1 }
  if filter == nil { return -1 }

  retVal := len(gif.filters)
  gif.InsertFilter(retVal, filter)
  return retVal
}
