package gif
// Provides GIF-flavored LZW compression of palette index streams.
// Based on the compress() routine from the Unix utility "compress", adapted to the GIF variable-width
// code format with its 12 bit ceiling.

const (
  lzwBits   = 12                // maximum code width
  lzwHSize  = 5003              // hash table capacity, 80% occupancy
  lzwEOF    = -1
)

// Used internally. Holds the state of a single compression pass.
type lzwEncoder struct {
  pixels        []byte              // input palette indices
  initCodeSize  int                 // minimum code size as written to the stream
  curPixel      int                 // read position in pixels

  nBits         int                 // number of bits per code
  maxCode       int                 // maximum code, given nBits
  htab          [lzwHSize]int       // hash table, -1 marks an empty slot
  codetab       [lzwHSize]int       // code table, parallel to htab
  freeEnt       int                 // first unused entry
  clearFlg      bool                // set when the code table has just been reset
  gInitBits     int                 // initial number of bits per code
  clearCode     int
  eofCode       int

  curAccum      int                 // bit accumulator, flushed LSB-first
  curBits       int
  accum         [256]byte           // sub-block packaging
  aCount        int
  out           []byte              // encoded output
}

var lzwMasks = []int{ 0x0000, 0x0001, 0x0003, 0x0007, 0x000F,
                      0x001F, 0x003F, 0x007F, 0x00FF,
                      0x01FF, 0x03FF, 0x07FF, 0x0FFF,
                      0x1FFF, 0x3FFF, 0x7FFF, 0xFFFF }


// Used internally. Compresses the given palette index stream and returns the complete GIF image data block:
// minimum code size byte, length-prefixed sub-blocks and the zero terminator.
func lzwEncode(pixels []byte, colorDepth int) []byte {
  initCodeSize := colorDepth
  if initCodeSize < 2 { initCodeSize = 2 }
  e := lzwEncoder{pixels: pixels, initCodeSize: initCodeSize}
  e.out = make([]byte, 0, len(pixels)/2 + 16)

  e.out = append(e.out, byte(e.initCodeSize))
  e.compress(e.initCodeSize + 1)
  e.out = append(e.out, 0)  // block terminator
  return e.out
}


// Used internally. The compressor core: maintains a string table in an open-addressing hash table with
// xor hashing and a secondary displacement probe (after Knott). Emits a clear code and resets the table
// once all 12 bit codes have been assigned.
func (e *lzwEncoder) compress(initBits int) {
  e.gInitBits = initBits
  e.clearFlg = false
  e.nBits = e.gInitBits
  e.maxCode = e.maxCodeForBits(e.nBits)

  e.clearCode = 1 << (initBits - 1)
  e.eofCode = e.clearCode + 1
  e.freeEnt = e.clearCode + 2
  e.aCount = 0

  ent := e.nextPixel()

  hshift := 0
  for fcode := lzwHSize; fcode < 65536; fcode *= 2 {
    hshift++
  }
  hshift = 8 - hshift   // set hash code range bound

  e.clearHash()
  e.output(e.clearCode)

outer:
  for {
    c := e.nextPixel()
    if c == lzwEOF { break }

    fcode := c << lzwBits + ent
    i := c << uint(hshift) ^ ent   // xor hashing
    if e.htab[i] == fcode {
      ent = e.codetab[i]
      continue
    }
    if e.htab[i] >= 0 {   // non-empty slot
      disp := lzwHSize - i   // secondary hash (after G. Knott)
      if i == 0 { disp = 1 }
      for {
        i -= disp
        if i < 0 { i += lzwHSize }
        if e.htab[i] == fcode {
          ent = e.codetab[i]
          continue outer
        }
        if e.htab[i] < 0 { break }
      }
    }
    e.output(ent)
    ent = c
    if e.freeEnt < 1 << lzwBits {
      e.codetab[i] = e.freeEnt   // code -> hashtable
      e.freeEnt++
      e.htab[i] = fcode
    } else {
      // table is full at 12 bits: signal the decoder to start over
      e.clearHash()
      e.freeEnt = e.clearCode + 2
      e.clearFlg = true
      e.output(e.clearCode)
    }
  }

  // output the final code
  e.output(ent)
  e.output(e.eofCode)
}


// Used internally. Returns the next pixel from the input or lzwEOF when the input is exhausted.
func (e *lzwEncoder) nextPixel() int {
  if e.curPixel >= len(e.pixels) { return lzwEOF }
  c := e.pixels[e.curPixel]
  e.curPixel++
  return int(c) & 0xff
}


// Used internally. Returns the maximum representable code for the given bit width.
func (e *lzwEncoder) maxCodeForBits(nBits int) int {
  return 1 << uint(nBits) - 1
}


// Used internally. Resets the hash table to its empty state.
func (e *lzwEncoder) clearHash() {
  for i := 0; i < lzwHSize; i++ {
    e.htab[i] = -1
  }
}


// Used internally. Appends a code of the current bit width to the output, LSB-first. Grows the code width
// when the table outgrows the current maximum and handles the final flush after the EOF code.
func (e *lzwEncoder) output(code int) {
  e.curAccum &= lzwMasks[e.curBits]
  if e.curBits > 0 {
    e.curAccum |= code << uint(e.curBits)
  } else {
    e.curAccum = code
  }
  e.curBits += e.nBits

  for e.curBits >= 8 {
    e.charOut(byte(e.curAccum & 0xff))
    e.curAccum >>= 8
    e.curBits -= 8
  }

  // If the next entry is going to be too big for the code size, then increase it, if possible.
  if e.freeEnt > e.maxCode || e.clearFlg {
    if e.clearFlg {
      e.nBits = e.gInitBits
      e.maxCode = e.maxCodeForBits(e.nBits)
      e.clearFlg = false
    } else {
      e.nBits++
      if e.nBits == lzwBits {
        e.maxCode = 1 << lzwBits
      } else {
        e.maxCode = e.maxCodeForBits(e.nBits)
      }
    }
  }

  if code == e.eofCode {
    // At EOF, write the rest of the buffer.
    for e.curBits > 0 {
      e.charOut(byte(e.curAccum & 0xff))
      e.curAccum >>= 8
      e.curBits -= 8
    }
    e.flushChar()
  }
}


// Used internally. Adds a byte to the current packet, flushing it once 254 bytes are accumulated.
func (e *lzwEncoder) charOut(c byte) {
  e.accum[e.aCount] = c
  e.aCount++
  if e.aCount >= 254 { e.flushChar() }
}


// Used internally. Writes the current packet as a length-prefixed sub-block.
func (e *lzwEncoder) flushChar() {
  if e.aCount > 0 {
    e.out = append(e.out, byte(e.aCount))
    e.out = append(e.out, e.accum[:e.aCount]...)
    e.aCount = 0
  }
}
