/*
GIF Creator is a command line tool for generating animated GIF files from scripts.

GIF Creator is released under the BSD 2-clause license. See LICENSE in the project's root folder for more details.
*/
package main

import (
  "errors"
  "fmt"
  "image"
  "io"
  "os"
  "path/filepath"
  "regexp"
  "strconv"
  "strings"

  "github.com/InfinityTools/gifcreator"
  "github.com/InfinityTools/gifcreator/config"
  "github.com/InfinityTools/gifcreator/gif"
  "github.com/InfinityTools/gifcreator/graphics"
  "github.com/InfinityTools/go-logging"
)


const TOOL_NAME = "GIF Creator"


// A single imported input frame together with its source delay. delay is 0 if the source format
// does not provide timing information.
type inputFrame struct {
  img     image.Image
  delay   int
}


func main() {
  err := loadArgs(os.Args)
  if err != nil {
    fmt.Printf("%v\n", err)
    os.Exit(1)
  }

  // Setting global options
  if b, x := argsVerbose(); x {
    if b {
      logging.SetVerbosity(logging.LOG)
    } else {
      logging.SetVerbosity(logging.ERROR)
    }
  }
  logging.SetPrefixCaller(false)
  if b, x := argsLogStyle(); x && b {
    logging.SetPrefixTimestamp(true)
    logging.SetPrefixLevel(true)
  } else {
    logging.SetPrefixTimestamp(false)
    logging.SetPrefixLevel(false)
  }

  if _, x := argsVersion(); x {
    printVersion()
  } else if _, x := argsHelp(); x {
    printHelp()
  } else if argsExtraLength() == 0 {
    printHelp()
  } else {
    logging.Infoln("Starting GIF conversion")
    err = convert()
    if err != nil {
      logging.Errorf("%v\n", err)
      os.Exit(1)
    }
    logging.Infoln("GIF conversion finished successfully.")
  }
}


func convert() error {
  length := argsExtraLength()
  for idx := 0; idx < length; idx++ {
    configFile := argsExtra(idx)
    if len(configFile) == 0 { continue }  // should not happen
    if configFile == "-" {
      logging.Infof("Starting job %d: (standard input)\n", idx)
    } else {
      logging.Infof("Starting job %d: %s\n", idx, configFile)
    }
    err := convertJob(configFile)
    if err != nil { return fmt.Errorf("Job %d: %v", idx, err) }
    logging.Infof("Finished job %d\n", idx)
  }

  return nil
}


func convertJob(configFile string) error {
  // consistency checks
  isStdIn := configFile == "-"
  if !isStdIn {
    fi, err := os.Stat(configFile)
    if err != nil { return err }
    if !fi.Mode().IsRegular() { return fmt.Errorf("File not found: %q", configFile) }
  }

  var r io.Reader = nil
  if isStdIn {
    r = os.Stdin
  } else {
    fin, err := os.Open(configFile)
    if err != nil { return fmt.Errorf("Cannot open %q: %v", configFile, err) }
    defer fin.Close()
    r = fin
  }
  cfg, err := config.ImportConfig(r)
  if err != nil { return fmt.Errorf("Error parsing configuration: %v", err) }

  err = generateGIF(cfg)
  if err != nil { return err }

  return nil
}


func generateGIF(cfg *config.GifConfig) error {
  if cfg == nil { return errors.New("No configuration data found") }

  logging.Logln("Generating GIF file")

  // setting up general options
  if b, x := argsThreaded(); x { gif.SetMultiThreaded(b) }

  // importing frames before GIF creation, so that an unspecified canvas size can be derived from them
  frames, err := gifLoadFrames(cfg)
  if err != nil { return err }
  if len(frames) == 0 { return errors.New("No input frames defined") }

  width, _ := cfg.GetConfigValueInt(config.SECTION_SETTINGS, config.KEY_WIDTH)
  height, _ := cfg.GetConfigValueInt(config.SECTION_SETTINGS, config.KEY_HEIGHT)
  if width == 0 { width = int64(frames[0].img.Bounds().Dx()) }
  if height == 0 { height = int64(frames[0].img.Bounds().Dy()) }

  gifOut := gif.CreateNew(int(width), int(height))
  if gifOut.Error() != nil { return gifOut.Error() }

  // setting up GIF options
  delay, _ := cfg.GetConfigValueInt(config.SECTION_SETTINGS, config.KEY_DELAY)
  if i, x := argsGifDelay(); x { delay = int64(i) }

  iVal, _ := cfg.GetConfigValueInt(config.SECTION_SETTINGS, config.KEY_QUALITY)
  if i, x := argsGifQuality(); x { iVal = int64(i) }
  gifOut.SetQuality(int(iVal))

  iVal, _ = cfg.GetConfigValueInt(config.SECTION_SETTINGS, config.KEY_REPEAT)
  if i, x := argsGifRepeat(); x { iVal = int64(i) }
  gifOut.SetRepeat(int(iVal))
  if gifOut.Error() != nil { return gifOut.Error() }

  // setting up output options
  gifOutFile, _ := cfg.GetConfigValueText(config.SECTION_OUTPUT, config.KEY_OUTPUT_PATH)
  if s, x := argsGifOutput(); x { gifOutFile = s }
  if dir := filepath.Dir(gifOutFile); !directoryExists(dir) {
    err := os.MkdirAll(dir, 0755)
    if err != nil { return fmt.Errorf("Cannot create output path %q: %v", dir, err) }
  }

  // setting up filters
  err = gifSetupFilters(cfg, gifOut)
  if err != nil { return err }

  // printing a summary of current GIF export options (INFO level)
  var sb strings.Builder
  sb.WriteString("Options: ")
  sb.WriteString(fmt.Sprintf("verbose: %v", logging.GetVerbosity() < logging.INFO))
  sb.WriteString(fmt.Sprintf(", threading: %v", gif.GetMultiThreaded()))
  sb.WriteString(fmt.Sprintf(", GIF output: %q", gifOutFile))
  sb.WriteString(fmt.Sprintf(", size: %dx%d", gifOut.GetWidth(), gifOut.GetHeight()))
  sb.WriteString(fmt.Sprintf(", delay: %d ms", delay))
  sb.WriteString(fmt.Sprintf(", quality: %d", gifOut.GetQuality()))
  switch gifOut.GetRepeat() {
    case gif.REPEAT_NONE:     sb.WriteString(", repeat: none")
    case gif.REPEAT_FOREVER:  sb.WriteString(", repeat: forever")
    default:                  sb.WriteString(fmt.Sprintf(", repeat: %d", gifOut.GetRepeat()))
  }
  sb.WriteString(fmt.Sprintf(", frames: %d", len(frames)))
  sb.WriteString(fmt.Sprintf(", filters: %d", gifOut.GetFilterLength()))
  logging.Infoln(sb.String())

  // setting up gif frames
  for _, frame := range frames {
    // source delays (animated GIF input) take precedence over the configured delay
    if frame.delay > 0 {
      gifOut.SetDelay(frame.delay)
    } else {
      gifOut.SetDelay(int(delay))
    }
    gifOut.AddFrame(frame.img)
    if gifOut.Error() != nil { return gifOut.Error() }
  }

  fout, err := os.Create(gifOutFile)
  if err != nil { return fmt.Errorf("Cannot create %q: %v", gifOutFile, err) }
  defer fout.Close()

  gifOut.Export(fout, nil)

  logging.Logln("Finished generating GIF file")
  return gifOut.Error()
}


func gifSetupFilters(cfg *config.GifConfig, gifOut *gif.GifFile) error {
  // initializing filters
  numFilters := cfg.GetConfigFilterLength()
  for idx := 0; idx < numFilters; idx++ {
    name, ok := cfg.GetConfigFilterName(idx)
    if !ok { return fmt.Errorf("Empty filter at index=%d", idx) }
    options, ok := cfg.GetConfigFilterOptions(idx)
    if !ok { return fmt.Errorf("Could not evaluate filter %q at index=%d", name, idx) }
    f := gifOut.CreateFilter(name)
    if f == nil { return fmt.Errorf("Could not create filter: %s", name) }
    for idx2, option := range options {
      if option == nil || len(option) < 2 { return fmt.Errorf("Could not evaluate option %d of filter %q (index=%d)", idx2, name, idx) }
      err := f.SetOption(option[0], option[1])
      if err != nil { return fmt.Errorf("Filter %q (index=%d), option %q: %v", name, idx, option[0], err) }
    }
    gifOut.AddFilter(f)
  }
  if gifOut.Error() != nil { return gifOut.Error() }

  // applying override options
  if options, x := argsFilterOptions(); x {
    reg := regexp.MustCompile("(0|[1-9][0-9]*):([^=]+)=(.*)")
    for _, option := range options {
      values := reg.FindStringSubmatch(option)  // should return []string{"full-string", "idx", "key", "value"}
      if values == nil || len(values) < 4 { return fmt.Errorf("Invalid filter option: %s", option) }
      index, err := strconv.Atoi(strings.TrimSpace(values[1]))
      if err != nil { return fmt.Errorf("Invalid filter index: %s", values[1]) }
      key, value := strings.TrimSpace(values[2]), strings.TrimSpace(values[3])
      if index < 0 || index >= gifOut.GetFilterLength() {
        logging.Warnf("Filter index out of bounds: %d. Skipping option...\n", index)
        continue
      }
      filter := gifOut.GetFilter(index)
      logging.Logf("Filter #%d (%s): Overriding option %s = %s\n", index, filter.GetName(), key, value)
      err = filter.SetOption(key, value)
      if err != nil {
        logging.Warnf("Filter #%d (%s): Could not set option %s = %s: %v\n", index, filter.GetName(), key, value, err)
      }
    }
  }

  return nil
}


func gifLoadFrames(cfg *config.GifConfig) ([]inputFrame, error) {
  useStatic, _ := cfg.GetConfigValueBool(config.SECTION_INPUT, config.KEY_INPUT_STATIC)

  // importing frames
  logging.Logln("Importing input graphics files")
  var frames []inputFrame
  var err error = nil
  if useStatic {
    frames, err = gifLoadFramesStatic(cfg)
  } else {
    frames, err = gifLoadFramesSequence(cfg)
  }
  if err != nil { return nil, err }
  logging.Logln("Finished importing input graphics files")

  return frames, nil
}


// Collects frames from a static list of file path entries
func gifLoadFramesStatic(cfg *config.GifConfig) ([]inputFrame, error) {
  entries, _ := cfg.GetConfigValueTextSeq(config.SECTION_INPUT, config.KEY_INPUT_FILES)
  if len(entries) == 0 { return nil, fmt.Errorf("No input files defined") }

  frames := make([]inputFrame, 0)
  for eidx, entry := range entries {
    // min, max values of -1 indicate to use input image defaults
    fileName, min, max, err := parseInputFile(entry)
    logging.Logf("Importing %s\n", fileName)
    if err != nil { return nil, err }
    if !fileExists(fileName) { return nil, fmt.Errorf("Input file %d does not exist: %q", eidx, fileName) }
    g, err := loadGraphics(fileName)
    if err != nil { return nil, err }

    length := g.GetImageLength()
    if min < 0 { min = 0 }
    if max < 0 { max = length }
    if min >= length || max > length { return nil, fmt.Errorf("Frame range of input file %d is out of bounds: have=[%d,%d], need=[%d,%d]", eidx, min, max, 0, length) }
    if min == max { logging.Warnf("Frame range of input file %d is empty. Skipping.\n", eidx) }
    for imgIdx := min; imgIdx < max; imgIdx++ {
      frames = append(frames, inputFrame{img: g.GetImage(imgIdx), delay: g.GetDelay(imgIdx)})
    }
  }

  return frames, nil
}


// Collects frames from a file sequence generated by parameters
func gifLoadFramesSequence(cfg *config.GifConfig) ([]inputFrame, error) {
  path, _ := cfg.GetConfigValueText(config.SECTION_INPUT, config.KEY_INPUT_PATH)
  prefix, _ := cfg.GetConfigValueText(config.SECTION_INPUT, config.KEY_INPUT_PREFIX)
  ext, _ := cfg.GetConfigValueText(config.SECTION_INPUT, config.KEY_INPUT_EXT)
  suffixStart, _ := cfg.GetConfigValueInt(config.SECTION_INPUT, config.KEY_INPUT_SUFFIX_START)
  suffixEnd, _ := cfg.GetConfigValueInt(config.SECTION_INPUT, config.KEY_INPUT_SUFFIX_END)
  suffixLen, _ := cfg.GetConfigValueInt(config.SECTION_INPUT, config.KEY_INPUT_SUFFIX_LEN)

  // sequence may be incremented or decremented
  var inc int64
  if suffixEnd < suffixStart { inc = -1; suffixEnd-- } else { inc = 1; suffixEnd++ }
  frames := make([]inputFrame, 0)
  for index := suffixStart; index != suffixEnd; index += inc {
    fileName := config.AssembleFilePath(path, prefix, ext, index, suffixLen)
    if !fileExists(fileName) { return nil, fmt.Errorf("Input file does not exist: %q", fileName) }
    logging.Logf("Importing %s\n", fileName)
    g, err := loadGraphics(fileName)
    if err != nil { return nil, err }

    length := g.GetImageLength()
    for imgIdx := 0; imgIdx < length; imgIdx++ {
      frames = append(frames, inputFrame{img: g.GetImage(imgIdx), delay: g.GetDelay(imgIdx)})
    }
  }

  return frames, nil
}


// Returns file path and frame index range of min (inclusive) and max (exclusive).
func parseInputFile(entry string) (path string, min, max int, err error) {
  path = entry
  min, max = -1, -1
  err = nil

  regRange := regexp.MustCompile("(:[0-9]+){1,2}$")
  regSplit := regexp.MustCompile(":")
  indices := regRange.FindStringIndex(entry)
  if indices != nil {
    path = entry[:indices[0]]
    items := regSplit.Split(entry[indices[0]+1:indices[1]], -1) // first character in range would cause to produce an empty item, skipping
    if len(items) > 0 {
      min, err = strconv.Atoi(items[0])
      if err != nil { err = fmt.Errorf("Input entry %q: invalid frame index=%s", entry, items[0]); return }
      if min < 0 { min = 0 }
      if len(items) > 1 {
        max, err = strconv.Atoi(items[1])
        if err != nil { err = fmt.Errorf("Input entry %q: invalid frame index=%s", entry, items[1]); return }
        if max >= 0 && max < min { min, max = max, min }
      }
    }
  }
  return
}


// Loads a graphics file of any supported input format
func loadGraphics(fileName string) (*graphics.Graphics, error) {
  fin, err := os.Open(fileName)
  if err != nil { return nil, fmt.Errorf("Could not open %q: %v", fileName, err) }
  defer fin.Close()

  retVal := graphics.Import(fin)
  return retVal, retVal.Error()
}


func printHelp() {
  fmt.Printf("Usage: %s [options] configfile [configfile2 ...]\n", os.Args[0])
  const helpText = "Allows you to build animated GIF files based on settings defined in configuration\n" +
                   "files.\n" +
                   "\n" +
                // "...............................................................................\n" +
                   "Options:\n" +
                   "  --verbose                 Show additional log messages during the conversion\n" +
                   "                            process.\n" +
                   "  --silent                  Suppress any log messages during the conversion\n" +
                   "                            process except for errors.\n" +
                   "  --log-style               Print log messages in log style, complete with\n" +
                   "                            timestamp and log level.\n" +
                   "  --threaded                Enable multithreading for GIF conversion. May speed\n" +
                   "                            up the conversion process on multi-core systems.\n" +
                   "                            Enabled by default if multiple CPU cores are\n" +
                   "                            detected.\n" +
                   "  --no-threaded             Disable multithreading for GIF conversion.\n" +
                   "  --gif-output file         Set GIF output file. Overrides setting in the\n" +
                   "                            config file.\n" +
                   "  --gif-quality value       Set sampling factor for color quantization. 1\n" +
                   "                            produces the best palette, higher values trade\n" +
                   "                            quality for speed. Allowed range: [1, 30].\n" +
                   "                            Overrides setting in the config file.\n" +
                   "  --gif-delay ms            Set display duration per frame in milliseconds.\n" +
                   "                            Applied to frames that don't provide their own\n" +
                   "                            timing information. Overrides setting in the\n" +
                   "                            config file.\n" +
                   "  --gif-repeat count        Set number of animation repetitions. Specify -1 to\n" +
                   "                            play the animation only once, 0 to loop forever, or\n" +
                   "                            a count in range [1, 65535] for a fixed number of\n" +
                   "                            iterations. Overrides setting in the config file.\n" +
                   "  --filter idx:key=value    Set or override a filter option. 'idx' indicates\n" +
                   "                            the filter index in the list of filters, starting\n" +
                   "                            at index 0. 'key' and 'value' define a single\n" +
                   "                            filter option key and value pair. Wrap the whole\n" +
                   "                            definition in quotes if it contains spaces.\n" +
                   "                            Add multiple --filter instances to set or override\n" +
                   "                            multiple filter options.\n" +
                   "  --help                    Print this help and terminate.\n" +
                   "  --version                 Print version information and terminate.\n" +
                   "\n" +
                   "Note: Use minus sign (-) in place of configfile to read configuration data\n" +
                   "      from standard input."
  fmt.Println(helpText)
}


func printVersion() {
  gifcreator.PrintVersion(TOOL_NAME)
}


// Used internally. Returns whether the specified filename points to a regular existing file.
func fileExists(file string) bool {
  if len(file) == 0 { return false }
  fi, err := os.Stat(file)
  if err != nil { return false }
  return fi.Mode().IsRegular()
}

// Used internally. Returns whether the specified path points to an existing directory.
func directoryExists(dir string) bool {
  if len(dir) == 0 { return true }  // special
  fi, err := os.Stat(dir)
  if err != nil { return false }
  return fi.Mode().IsDir()
}
