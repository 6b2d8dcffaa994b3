package gif
// Provides palette generation based on a Kohonen self-organizing map.
// Derived from Anthony Dekker's NeuQuant neural-net quantization algorithm.

const (
  // network definition
  netSize       = 256               // number of neurons, equals number of palette entries
  maxNetPos     = netSize - 1
  netBiasShift  = 4                 // bias for color values
  nCycles       = 100               // number of learning cycles

  // frequency and bias definitions
  intBiasShift  = 16                // bias for fractions
  intBias       = 1 << intBiasShift
  gammaShift    = 10
  betaShift     = 10
  beta          = intBias >> betaShift
  betaGamma     = intBias << (gammaShift - betaShift)

  // decreasing radius factor definitions
  initRad         = netSize >> 3    // for 256 colors the radius starts at 32
  radiusBiasShift = 6
  radiusBias      = 1 << radiusBiasShift
  initRadius      = initRad * radiusBias
  radiusDec       = 30              // radius decreases by factor 1/30 per cycle

  // decreasing alpha factor definitions
  alphaBiasShift  = 10
  initAlpha       = 1 << alphaBiasShift
  radBiasShift    = 8
  radBias         = 1 << radBiasShift
  alphaRadBShift  = alphaBiasShift + radBiasShift
  alphaRadBias    = 1 << alphaRadBShift

  // four primes near 500: picture strides assumed to have no factors of this size
  prime1  = 499
  prime2  = 491
  prime3  = 487
  prime4  = 503

  minPictureBytes = 3 * prime4      // minimum size for input image
)

// Stores the state of a single quantization pass. Each frame uses its own instance.
type colorQuant struct {
  pixels    []byte              // input pixels as consecutive r, g, b triples
  samplefac int                 // sampling factor [1, 30]

  network   [netSize][4]int     // the network itself: biased r, g, b and original neuron position
  netindex  [256]int            // for network lookup, keyed by green value
  bias      [netSize]int        // bias array for learning
  freq      [netSize]int        // frequency array for learning
  radpower  [initRad]int        // radpower for precomputation
}


// Used internally. Creates a quantizer instance for the given pixel data and sampling factor.
// Neurons start out evenly distributed along the gray diagonal.
func newColorQuant(pixels []byte, samplefac int) *colorQuant {
  q := colorQuant{pixels: pixels, samplefac: samplefac}
  for i := 0; i < netSize; i++ {
    v := (i << (netBiasShift + 8)) / netSize
    q.network[i] = [4]int{v, v, v, 0}
    q.freq[i] = intBias / netSize
    q.bias[i] = 0
  }
  return &q
}


// Used internally. Runs the full quantization pass and returns the resulting palette as 768 consecutive
// r, g, b bytes in original neuron order.
func (q *colorQuant) buildColormap() []byte {
  q.learn()
  q.unbiasnet()
  q.inxbuild()
  return q.colorMap()
}


// Used internally. Returns the palette index that best matches the given color. Only valid after buildColormap().
func (q *colorQuant) lookup(r, g, b int) int {
  return q.inxsearch(r, g, b)
}


// Used internally. Main learning loop: feeds sampled pixels to the network while alpha and radius decay.
func (q *colorQuant) learn() {
  lengthCount := len(q.pixels)
  if lengthCount < minPictureBytes { q.samplefac = 1 }

  alphadec := 30 + (q.samplefac - 1) / 3
  samplePixels := lengthCount / (3 * q.samplefac)
  delta := samplePixels / nCycles
  if delta == 0 { delta = 1 }
  alpha := initAlpha
  radius := initRadius

  rad := radius >> radiusBiasShift
  if rad <= 1 { rad = 0 }
  for i := 0; i < rad; i++ {
    q.radpower[i] = alpha * ((rad*rad - i*i) * radBias / (rad * rad))
  }

  var step int
  if lengthCount < minPictureBytes {
    step = 3
  } else if lengthCount % prime1 != 0 {
    step = 3 * prime1
  } else if lengthCount % prime2 != 0 {
    step = 3 * prime2
  } else if lengthCount % prime3 != 0 {
    step = 3 * prime3
  } else {
    step = 3 * prime4
  }

  pix := 0
  for i := 0; i < samplePixels; i++ {
    r := int(q.pixels[pix]) << netBiasShift
    g := int(q.pixels[pix+1]) << netBiasShift
    b := int(q.pixels[pix+2]) << netBiasShift
    j := q.contest(r, g, b)

    q.altersingle(alpha, j, r, g, b)
    if rad != 0 { q.alterneigh(rad, j, r, g, b) }

    pix += step
    if pix >= lengthCount { pix -= lengthCount }

    if (i+1) % delta == 0 {
      alpha -= alpha / alphadec
      radius -= radius / radiusDec
      rad = radius >> radiusBiasShift
      if rad <= 1 { rad = 0 }
      for j := 0; j < rad; j++ {
        q.radpower[j] = alpha * ((rad*rad - j*j) * radBias / (rad * rad))
      }
    }
  }
}


// Used internally. Searches for the biased color in the network and returns the winning neuron position.
// Finds closest neuron (minimum distance) and updates frequency. Finds best neuron (minimum distance - bias)
// and returns position. For frequently chosen neurons freq[i] is high and bias[i] is negative.
func (q *colorQuant) contest(r, g, b int) int {
  bestd := int(^uint(0) >> 1)
  bestbiasd := bestd
  bestpos := -1
  bestbiaspos := bestpos

  for i := 0; i < netSize; i++ {
    n := &q.network[i]
    dist := n[0] - r
    if dist < 0 { dist = -dist }
    a := n[1] - g
    if a < 0 { a = -a }
    dist += a
    a = n[2] - b
    if a < 0 { a = -a }
    dist += a
    if dist < bestd { bestd = dist; bestpos = i }
    biasdist := dist - (q.bias[i] >> (intBiasShift - netBiasShift))
    if biasdist < bestbiasd { bestbiasd = biasdist; bestbiaspos = i }
    betafreq := q.freq[i] >> betaShift
    q.freq[i] -= betafreq
    q.bias[i] += betafreq << gammaShift
  }
  q.freq[bestpos] += beta
  q.bias[bestpos] -= betaGamma
  return bestbiaspos
}


// Used internally. Moves neuron i towards the biased color by factor alpha.
func (q *colorQuant) altersingle(alpha, i, r, g, b int) {
  n := &q.network[i]
  n[0] -= alpha * (n[0] - r) / initAlpha
  n[1] -= alpha * (n[1] - g) / initAlpha
  n[2] -= alpha * (n[2] - b) / initAlpha
}


// Used internally. Moves the neighbors of neuron i towards the biased color by a factor that falls off
// quadratically with topological distance (precomputed in radpower).
func (q *colorQuant) alterneigh(rad, i, r, g, b int) {
  lo := i - rad
  if lo < -1 { lo = -1 }
  hi := i + rad
  if hi > netSize { hi = netSize }

  j := i + 1
  k := i - 1
  m := 1
  for j < hi || k > lo {
    a := q.radpower[m]
    m++
    if j < hi {
      n := &q.network[j]
      n[0] -= a * (n[0] - r) / alphaRadBias
      n[1] -= a * (n[1] - g) / alphaRadBias
      n[2] -= a * (n[2] - b) / alphaRadBias
      j++
    }
    if k > lo {
      n := &q.network[k]
      n[0] -= a * (n[0] - r) / alphaRadBias
      n[1] -= a * (n[1] - g) / alphaRadBias
      n[2] -= a * (n[2] - b) / alphaRadBias
      k--
    }
  }
}


// Used internally. Unbiases the network to give byte values [0, 255] and records each neuron's original position.
func (q *colorQuant) unbiasnet() {
  for i := 0; i < netSize; i++ {
    for j := 0; j < 3; j++ {
      v := q.network[i][j] >> netBiasShift
      if v < 0 { v = 0 }
      if v > 255 { v = 255 }
      q.network[i][j] = v
    }
    q.network[i][3] = i
  }
}


// Used internally. Sorts the network by green value via insertion sort and builds netindex[0..255] for
// fast green-first lookups.
func (q *colorQuant) inxbuild() {
  previouscol := 0
  startpos := 0

  for i := 0; i < netSize; i++ {
    smallpos := i
    smallval := q.network[i][1]
    // find smallest in [i, netSize)
    for j := i + 1; j < netSize; j++ {
      if q.network[j][1] < smallval {
        smallpos = j
        smallval = q.network[j][1]
      }
    }
    if i != smallpos {
      q.network[i], q.network[smallpos] = q.network[smallpos], q.network[i]
    }
    if smallval != previouscol {
      q.netindex[previouscol] = (startpos + i) >> 1
      for j := previouscol + 1; j < smallval; j++ {
        q.netindex[j] = i
      }
      previouscol = smallval
      startpos = i
    }
  }
  q.netindex[previouscol] = (startpos + maxNetPos) >> 1
  for j := previouscol + 1; j < 256; j++ {
    q.netindex[j] = maxNetPos
  }
}


// Used internally. Assembles the palette in original neuron order, so that indices returned by lookup()
// remain stable regardless of the sort applied by inxbuild().
func (q *colorQuant) colorMap() []byte {
  cmap := make([]byte, 3 * netSize)
  var index [netSize]int
  for i := 0; i < netSize; i++ {
    index[q.network[i][3]] = i
  }
  k := 0
  for i := 0; i < netSize; i++ {
    j := index[i]
    cmap[k] = byte(q.network[j][0])
    cmap[k+1] = byte(q.network[j][1])
    cmap[k+2] = byte(q.network[j][2])
    k += 3
  }
  return cmap
}


// Used internally. Searches for the best matching neuron of the given color. Starts at netindex[g] and
// expands outwards in both directions, short-circuiting as soon as the green distance alone exceeds the
// best match so far. Returns the neuron's original position.
func (q *colorQuant) inxsearch(r, g, b int) int {
  bestd := 1000  // biggest possible dist is 256*3
  best := -1

  i := q.netindex[g]  // index on g
  j := i - 1          // start at netindex[g] and work outwards

  for i < netSize || j >= 0 {
    if i < netSize {
      n := &q.network[i]
      dist := n[1] - g  // inx key
      if dist >= bestd {
        i = netSize     // stop iter
      } else {
        i++
        if dist < 0 { dist = -dist }
        a := n[0] - r
        if a < 0 { a = -a }
        dist += a
        if dist < bestd {
          a = n[2] - b
          if a < 0 { a = -a }
          dist += a
          if dist < bestd { bestd = dist; best = n[3] }
        }
      }
    }
    if j >= 0 {
      n := &q.network[j]
      dist := g - n[1]  // inx key, reverse dir
      if dist >= bestd {
        j = -1          // stop iter
      } else {
        j--
        if dist < 0 { dist = -dist }
        a := n[0] - r
        if a < 0 { a = -a }
        dist += a
        if dist < bestd {
          a = n[2] - b
          if a < 0 { a = -a }
          dist += a
          if dist < bestd { bestd = dist; best = n[3] }
        }
      }
    }
  }

  return best
}
