package gif
// Provides GIF89a container assembly.

import (
  "errors"
  "image"

  "github.com/InfinityTools/go-logging"
  "github.com/InfinityTools/go-ietools/buffers"
)

// Encode serializes the current GIF structure and returns it as a byte buffer. The progress callback is
// invoked after each fully encoded frame and may be nil. Encoding is a one-shot operation: calling Encode
// or Export a second time on the same GifFile sets an error state.
// Operation is skipped if error state is set.
func (gif *GifFile) Encode(progress ProgressFunc) []byte {
  if gif.err != nil { return nil }
  if gif.encoded { gif.err = errors.New("GIF structure already encoded"); return nil }

  buf := gif.encodeGif(progress)
  if gif.err != nil { return nil }
  gif.encoded = true
  return buf
}


// Used internally. Encodes the current GIF structure into a byte buffer.
func (gif *GifFile) encodeGif(progress ProgressFunc) []byte {
  logging.Logln("Encoding GIF")
  // checking consistency
  if len(gif.frames) == 0 { gif.err = errors.New("No frames to encode"); return nil }

  // applying filters
  frames, err := gif.applyFilters()
  if err != nil { gif.err = err; return nil }

  // logical screen descriptor covers signature, screen size, flags and the global color table placeholder
  ofsFrames := 6 + 7 + 768
  if gif.repeat != REPEAT_NONE {
    ofsFrames += 19   // application extension block
  }

  out := buffers.Create()
  if out.Error() != nil { gif.err = out.Error(); return nil }
  out.InsertBytes(0, ofsFrames)
  if out.Error() != nil { gif.err = out.Error(); return nil }
  out.PutString(0x00, 3, sig_gif)
  if out.Error() != nil { gif.err = out.Error(); return nil }
  out.PutString(0x03, 3, ver_89a)
  if out.Error() != nil { gif.err = out.Error(); return nil }
  out.PutUint16(0x06, uint16(gif.width))
  if out.Error() != nil { gif.err = out.Error(); return nil }
  out.PutUint16(0x08, uint16(gif.height))
  if out.Error() != nil { gif.err = out.Error(); return nil }
  // global color table present, 8 bits of color resolution, 256 entries
  out.PutUint8(0x0a, 0xf7)
  if out.Error() != nil { gif.err = out.Error(); return nil }
  out.PutUint8(0x0b, 0)   // background color index
  if out.Error() != nil { gif.err = out.Error(); return nil }
  out.PutUint8(0x0c, 0)   // pixel aspect ratio
  if out.Error() != nil { gif.err = out.Error(); return nil }
  // the global table itself stays zeroed, every frame carries a local table
  out.PutBuffer(0x0d, make([]byte, 768))
  if out.Error() != nil { gif.err = out.Error(); return nil }

  if gif.repeat != REPEAT_NONE {
    gif.encodeLoopExt(out, 0x30d)
    if gif.err != nil { return nil }
  }

  // writing frame blocks
  logging.Log("Encoding GIF frames")
  numFrames := len(frames)
  curOfs := ofsFrames
  for i := 0; i < numFrames; i++ {
    logging.LogProgressDot(i, numFrames, 79 - 19)  // 19 is length of prefix string
    curOfs = gif.encodeFrame(out, curOfs, frames[i])
    if gif.err != nil { return nil }
    if progress != nil { progress((i + 1) * 100 / numFrames) }
  }
  logging.OverridePrefix(false, false, false).Logln("")

  // trailer
  out.InsertBytes(curOfs, 1)
  if out.Error() != nil { gif.err = out.Error(); return nil }
  out.PutUint8(curOfs, 0x3b)
  if out.Error() != nil { gif.err = out.Error(); return nil }

  logging.Logln("Finished encoding GIF")
  return out.Bytes()
}


// Used internally. Writes the Netscape application extension that stores the animation loop count.
func (gif *GifFile) encodeLoopExt(out *buffers.Buffer, ofs int) {
  out.PutUint8(ofs, 0x21)         // extension introducer
  if out.Error() != nil { gif.err = out.Error(); return }
  out.PutUint8(ofs + 1, 0xff)     // application extension label
  if out.Error() != nil { gif.err = out.Error(); return }
  out.PutUint8(ofs + 2, 11)
  if out.Error() != nil { gif.err = out.Error(); return }
  out.PutString(ofs + 3, 11, "NETSCAPE2.0")
  if out.Error() != nil { gif.err = out.Error(); return }
  out.PutUint8(ofs + 14, 3)       // sub-block size
  if out.Error() != nil { gif.err = out.Error(); return }
  out.PutUint8(ofs + 15, 1)       // loop sub-block id
  if out.Error() != nil { gif.err = out.Error(); return }
  out.PutUint16(ofs + 16, uint16(gif.repeat))   // loop count, 0 loops forever
  if out.Error() != nil { gif.err = out.Error(); return }
  out.PutUint8(ofs + 18, 0)       // block terminator
  if out.Error() != nil { gif.err = out.Error(); return }
}


// Used internally. Quantizes and compresses a single frame and appends graphic control extension,
// image descriptor, local color table and image data at the given offset. Returns the offset right
// after the frame.
func (gif *GifFile) encodeFrame(out *buffers.Buffer, ofs int, frame GifFrame) int {
  pixels := frameToBytes(frame.img)
  quant := newColorQuant(pixels, gif.quality)
  colorTab := quant.buildColormap()

  // mapping frame pixels to palette indices
  indexed := make([]byte, len(pixels) / 3)
  for i, k := 0, 0; i < len(indexed); i++ {
    indexed[i] = byte(quant.lookup(int(pixels[k]), int(pixels[k+1]), int(pixels[k+2])))
    k += 3
  }
  imageData := lzwEncode(indexed, 8)

  // graphic control extension
  out.InsertBytes(ofs, 8)
  if out.Error() != nil { gif.err = out.Error(); return ofs }
  out.PutUint8(ofs, 0x21)
  out.PutUint8(ofs + 1, 0xf9)
  out.PutUint8(ofs + 2, 4)
  out.PutUint8(ofs + 3, 0)    // no transparency, no disposal
  out.PutUint16(ofs + 4, uint16((frame.delay + 5) / 10))  // delay in 1/100 sec
  out.PutUint8(ofs + 6, 0)    // transparent color index
  out.PutUint8(ofs + 7, 0)    // block terminator
  if out.Error() != nil { gif.err = out.Error(); return ofs }
  ofs += 8

  // image descriptor
  out.InsertBytes(ofs, 10)
  if out.Error() != nil { gif.err = out.Error(); return ofs }
  out.PutUint8(ofs, 0x2c)
  out.PutUint16(ofs + 1, 0)   // frame position x
  out.PutUint16(ofs + 3, 0)   // frame position y
  out.PutUint16(ofs + 5, uint16(gif.width))
  out.PutUint16(ofs + 7, uint16(gif.height))
  out.PutUint8(ofs + 9, 0x87) // local color table with 256 entries
  if out.Error() != nil { gif.err = out.Error(); return ofs }
  ofs += 10

  // local color table
  out.InsertBytes(ofs, 768)
  if out.Error() != nil { gif.err = out.Error(); return ofs }
  out.PutBuffer(ofs, colorTab)
  if out.Error() != nil { gif.err = out.Error(); return ofs }
  ofs += 768

  // image data
  out.InsertBytes(ofs, len(imageData))
  if out.Error() != nil { gif.err = out.Error(); return ofs }
  out.PutBuffer(ofs, imageData)
  if out.Error() != nil { gif.err = out.Error(); return ofs }
  ofs += len(imageData)

  return ofs
}


// Used internally. Extracts frame pixels as consecutive r, g, b triples in row-major order.
// Alpha information is discarded.
func frameToBytes(img image.Image) []byte {
  imgRGBA := ToRGBA(img)
  b := imgRGBA.Bounds()
  buf := make([]byte, b.Dx() * b.Dy() * 3)
  k := 0
  for y := b.Min.Y; y < b.Max.Y; y++ {
    ofs := (y - b.Min.Y) * imgRGBA.Stride
    for x := 0; x < b.Dx(); x++ {
      buf[k] = imgRGBA.Pix[ofs]
      buf[k+1] = imgRGBA.Pix[ofs+1]
      buf[k+2] = imgRGBA.Pix[ofs+2]
      k += 3
      ofs += 4
    }
  }
  return buf
}
