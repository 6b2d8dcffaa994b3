package config
// Parse functionality for JSON structures.

import (
  "encoding/json"
  "fmt"
  "strconv"
  "strings"

  "github.com/InfinityTools/go-logging"
)

// Used internally by json.Unmarshal to store output settings.
type JsonOutput struct {
  File          string
}

// Used internally by json.Unmarshal to store file input sequences.
type JsonInputSequence struct {
  Path          string
  Prefix        string
  SuffixStart   int64
  SuffixEnd     int64
  SuffixLength  int64
  Ext           string
}

// Used internally by json.Unmarshal to store input settings.
type JsonInput struct {
  Static        bool
  Files         []string
  FileSequence  JsonInputSequence
}

// Used internally by json.Unmarshal to store gif settings.
type JsonSettings struct {
  Width         int64
  Height        int64
  Delay         int64
  Quality       int64
  Repeat        int64
}

// Used internally by json.Unmarshal to store filter settings.
type JsonFilterOptions struct {
  Key           string
  Value         string
}

// Used internally by json.Unmarshal to store filter options.
type JsonFilter struct {
  Name          string
  Options       []JsonFilterOptions
}

// Used internally by json.Unmarshal to store configuration data from JSON scripts.
type JsonGenerator struct {
  Output        JsonOutput
  Input         JsonInput
  Settings      JsonSettings
  Filters       []JsonFilter
}

// Used internally. Parses JSON source into intermediate structures.
func importJson(buffer []byte) (config *GifConfig, err error) {
  jsonGenerator := JsonGenerator{}
  // settings defaults applied before unmarshalling, so that omitted keys keep sensible values
  jsonGenerator.Settings = JsonSettings{Width: 0, Height: 0, Delay: 100, Quality: 10, Repeat: 0}
  jsonGenerator.Input.FileSequence.SuffixLength = 1
  err = json.Unmarshal(buffer, &jsonGenerator)
  if err != nil { return }

  config, err = processConfigJson(&jsonGenerator)
  return
}


// Used internally. Converts parsed JSON input into useful data types, taking defaults into account for omitted input.
func processConfigJson(input *JsonGenerator) (config *GifConfig, err error) {
  gif := make(GifConfig)
  config = &gif
  logging.Logln("Processing output settings")
  err = processConfigJsonOutput(input, config)
  if err != nil { return }
  logging.Logln("Processing input settings")
  err = processConfigJsonInput(input, config)
  if err != nil { return }
  logging.Logln("Processing GIF settings")
  err = processConfigJsonSettings(input, config)
  if err != nil { return }
  logging.Logln("Processing filter settings")
  err = processConfigJsonFilters(input, config)
  return
}

// Used internally. Process "output" section.
func processConfigJsonOutput(input *JsonGenerator, config *GifConfig) error {
  (*config)[SECTION_OUTPUT] = make(GifMap)

  var textVal string
  textVal = fixPath(strings.TrimSpace(input.Output.File))
  if len(textVal) == 0 { textVal = "default.gif" }
  for len(textVal) > 1 && textVal[len(textVal)-1:] == "/" { textVal = textVal[:len(textVal)-1] }
  (*config)[SECTION_OUTPUT][KEY_OUTPUT_PATH] = Text{textVal}

  return nil
}

// Used internally. Process "input" section.
func processConfigJsonInput(input *JsonGenerator, config *GifConfig) error {
  (*config)[SECTION_INPUT] = make(GifMap)

  static := input.Input.Static
  (*config)[SECTION_INPUT][KEY_INPUT_STATIC] = Bool{static}

  var size int
  size = len(input.Input.Files)
  textSeq := make([]string, size)
  for i := 0; i < size; i++ {
    textSeq[i] = strings.TrimSpace(input.Input.Files[i])
  }
  (*config)[SECTION_INPUT][KEY_INPUT_FILES] = TextArray{textSeq}

  var textVal string
  textVal = fixPath(strings.TrimSpace(input.Input.FileSequence.Path))
  if len(textVal) == 0 { textVal = "." }
  for len(textVal) > 1 && (textVal[len(textVal)-1:] == "/" || textVal[len(textVal)-1:] == "\\") { textVal = textVal[:len(textVal)-1] }
  (*config)[SECTION_INPUT][KEY_INPUT_PATH] = Text{textVal}

  textVal = strings.TrimSpace(input.Input.FileSequence.Prefix)
  (*config)[SECTION_INPUT][KEY_INPUT_PREFIX] = Text{textVal}

  var intVal int64
  intVal = input.Input.FileSequence.SuffixStart
  (*config)[SECTION_INPUT][KEY_INPUT_SUFFIX_START] = Int{intVal}

  intVal = input.Input.FileSequence.SuffixEnd
  (*config)[SECTION_INPUT][KEY_INPUT_SUFFIX_END] = Int{intVal}

  intVal = input.Input.FileSequence.SuffixLength
  if intVal < 1 || intVal > 16 { return fmt.Errorf("Input>FileSequence>SuffixLength not in range [1,16]: %d", intVal) }
  (*config)[SECTION_INPUT][KEY_INPUT_SUFFIX_LEN] = Int{intVal}

  textVal = strings.TrimSpace(input.Input.FileSequence.Ext)
  for len(textVal) > 0 && textVal[0:1] == "." { textVal = textVal[1:] }
  (*config)[SECTION_INPUT][KEY_INPUT_EXT] = Text{textVal}

  return nil
}

// Used internally. Process "settings" section.
func processConfigJsonSettings(input *JsonGenerator, config *GifConfig) error {
  (*config)[SECTION_SETTINGS] = make(GifMap)

  var intVal int64
  intVal = input.Settings.Width
  if intVal < 0 || intVal > 65535 { return fmt.Errorf("Settings>Width not in range [0, 65535]: %d", intVal) }
  (*config)[SECTION_SETTINGS][KEY_WIDTH] = Int{intVal}

  intVal = input.Settings.Height
  if intVal < 0 || intVal > 65535 { return fmt.Errorf("Settings>Height not in range [0, 65535]: %d", intVal) }
  (*config)[SECTION_SETTINGS][KEY_HEIGHT] = Int{intVal}

  intVal = input.Settings.Delay
  if intVal < 0 { return fmt.Errorf("Settings>Delay must not be negative: %d", intVal) }
  (*config)[SECTION_SETTINGS][KEY_DELAY] = Int{intVal}

  intVal = input.Settings.Quality
  (*config)[SECTION_SETTINGS][KEY_QUALITY] = Int{intVal}

  intVal = input.Settings.Repeat
  if intVal < -1 || intVal > 65535 { return fmt.Errorf("Settings>Repeat not in range [-1, 65535]: %d", intVal) }
  (*config)[SECTION_SETTINGS][KEY_REPEAT] = Int{intVal}

  return nil
}

func processConfigJsonFilters(input *JsonGenerator, config *GifConfig) error {
  (*config)[SECTION_FILTERS] = make(GifMap)

  // process filters sequentially
  for index, filter := range input.Filters {
    f := Filter{ Name: filter.Name, Options: make(map[string]string) }
    for _, option := range filter.Options {
      f.Options[option.Key] = option.Value
    }
    (*config)[SECTION_FILTERS][strconv.Itoa(index)] = f
  }

  return nil
}
