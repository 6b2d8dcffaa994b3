package config
// Parse functionality for XML structures.

import (
  "encoding/xml"
  "fmt"
  "strconv"
  "strings"

  "github.com/InfinityTools/go-logging"
)

// Used internally by xml.Unmarshal to store output settings.
type XmlOutput struct {
  Path          string      `xml:"file"`
}

// Used internally by xml.Unmarshal to store input file sequences settings.
type XmlInputSequence struct {
  Path          string      `xml:"path"`
  Prefix        string      `xml:"prefix"`
  SuffixStart   string      `xml:"suffixstart"`
  SuffixEnd     string      `xml:"suffixend"`
  SuffixLength  string      `xml:"suffixlength"`
  Ext           string      `xml:"ext"`
}

// Used internally by xml.Unmarshal to store input settings.
type XmlInput struct {
  Static        string            `xml:"static"`
  Sequence      XmlInputSequence  `xml:"filesequence"`
  Files         []string          `xml:"files>path"`
}

// Used internally by xml.Unmarshal to store gif settings.
type XmlSettings struct {
  Width         string      `xml:"width"`
  Height        string      `xml:"height"`
  Delay         string      `xml:"delay"`
  Quality       string      `xml:"quality"`
  Repeat        string      `xml:"repeat"`
}

// Used internally by xml.Unmarshal to store filter settings.
type XmlGifFilterOption struct {
  Key           string      `xml:"key"`
  Value         string      `xml:"value"`
}

// Used internally by xml.Unmarshal to store filter options.
type XmlGifFilter struct {
  Name          string                `xml:"name"`
  Options       []XmlGifFilterOption  `xml:"option"`
}

// Used internally by xml.Unmarshal to store configuration data from XML scripts.
type XmlGenerator struct {
  XMLName       xml.Name        `xml:"generator"`
  Output        XmlOutput       `xml:"output"`
  Input         XmlInput        `xml:"input"`
  Settings      XmlSettings     `xml:"settings"`
  Filters       []XmlGifFilter  `xml:"filters>filter"`
}


// Used internally. Parses XML source into intermediate structures.
func importXml(buffer []byte) (config *GifConfig, err error) {
  xmlGenerator := XmlGenerator{}
  err = xml.Unmarshal(buffer, &xmlGenerator)
  if err != nil { return }

  config, err = processConfigXml(&xmlGenerator)
  return
}


// Used internally. Converts parsed XML input into useful data types, taking defaults into account for omitted input.
func processConfigXml(input *XmlGenerator) (config *GifConfig, err error) {
  gif := make(GifConfig)
  config = &gif
  logging.Logln("Processing output settings")
  err = processConfigXmlOutput(input, config)
  if err != nil { return }
  logging.Logln("Processing input settings")
  err = processConfigXmlInput(input, config)
  if err != nil { return }
  logging.Logln("Processing GIF settings")
  err = processConfigXmlSettings(input, config)
  if err != nil { return }
  logging.Logln("Processing filter settings")
  err = processConfigXmlFilters(input, config)
  return
}

// Used internally. Process "output" section.
func processConfigXmlOutput(input *XmlGenerator, config *GifConfig) error {
  (*config)[SECTION_OUTPUT] = make(GifMap)

  var textVal string
  textVal = fixPath(strings.TrimSpace(input.Output.Path))
  if len(textVal) == 0 { textVal = "default.gif" }
  for len(textVal) > 1 && textVal[len(textVal)-1:] == "/" { textVal = textVal[:len(textVal)-1] }
  (*config)[SECTION_OUTPUT][KEY_OUTPUT_PATH] = Text{textVal}

  return nil
}

// Used internally. Process "input" section.
func processConfigXmlInput(input *XmlGenerator, config *GifConfig) error {
  (*config)[SECTION_INPUT] = make(GifMap)

  var static bool
  static = tryParseBool(input.Input.Static, true)
  (*config)[SECTION_INPUT][KEY_INPUT_STATIC] = Bool{static}

  var size int
  size = len(input.Input.Files)
  textSeq := make([]string, size)
  for i := 0; i < size; i++ {
    textSeq[i] = strings.TrimSpace(input.Input.Files[i])
  }
  (*config)[SECTION_INPUT][KEY_INPUT_FILES] = TextArray{textSeq}

  var textVal string
  textVal = fixPath(strings.TrimSpace(input.Input.Sequence.Path))
  if len(textVal) == 0 { textVal = "." }
  for len(textVal) > 1 && (textVal[len(textVal)-1:] == "/" || textVal[len(textVal)-1:] == "\\") { textVal = textVal[:len(textVal)-1] }
  (*config)[SECTION_INPUT][KEY_INPUT_PATH] = Text{textVal}

  textVal = strings.TrimSpace(input.Input.Sequence.Prefix)
  (*config)[SECTION_INPUT][KEY_INPUT_PREFIX] = Text{textVal}

  var intVal int64
  intVal = tryParseInt(input.Input.Sequence.SuffixStart, 0)
  (*config)[SECTION_INPUT][KEY_INPUT_SUFFIX_START] = Int{intVal}

  intVal = tryParseInt(input.Input.Sequence.SuffixEnd, 0)
  (*config)[SECTION_INPUT][KEY_INPUT_SUFFIX_END] = Int{intVal}

  intVal = tryParseInt(input.Input.Sequence.SuffixLength, 1)
  if intVal < 1 || intVal > 16 { return fmt.Errorf("Input>FileSequence>SuffixLength not in range [1,16]: %d", intVal) }
  (*config)[SECTION_INPUT][KEY_INPUT_SUFFIX_LEN] = Int{intVal}

  textVal = strings.TrimSpace(input.Input.Sequence.Ext)
  for len(textVal) > 0 && textVal[0:1] == "." { textVal = textVal[1:] }
  (*config)[SECTION_INPUT][KEY_INPUT_EXT] = Text{textVal}

  return nil
}

// Used internally. Process "settings" section.
func processConfigXmlSettings(input *XmlGenerator, config *GifConfig) error {
  (*config)[SECTION_SETTINGS] = make(GifMap)

  var intVal int64
  intVal = tryParseInt(input.Settings.Width, 0)
  if intVal < 0 || intVal > 65535 { return fmt.Errorf("Settings>Width not in range [0, 65535]: %d", intVal) }
  (*config)[SECTION_SETTINGS][KEY_WIDTH] = Int{intVal}

  intVal = tryParseInt(input.Settings.Height, 0)
  if intVal < 0 || intVal > 65535 { return fmt.Errorf("Settings>Height not in range [0, 65535]: %d", intVal) }
  (*config)[SECTION_SETTINGS][KEY_HEIGHT] = Int{intVal}

  intVal = tryParseInt(input.Settings.Delay, 100)
  if intVal < 0 { return fmt.Errorf("Settings>Delay must not be negative: %d", intVal) }
  (*config)[SECTION_SETTINGS][KEY_DELAY] = Int{intVal}

  intVal = tryParseInt(input.Settings.Quality, 10)
  (*config)[SECTION_SETTINGS][KEY_QUALITY] = Int{intVal}

  intVal = tryParseInt(input.Settings.Repeat, 0)
  if intVal < -1 || intVal > 65535 { return fmt.Errorf("Settings>Repeat not in range [-1, 65535]: %d", intVal) }
  (*config)[SECTION_SETTINGS][KEY_REPEAT] = Int{intVal}

  return nil
}


func processConfigXmlFilters(input *XmlGenerator, config *GifConfig) error {
  (*config)[SECTION_FILTERS] = make(GifMap)

  // process filters sequentially
  for index, filter := range input.Filters {
    f := Filter{ Name: filter.Name, Options: make(map[string]string) }
    for i := 0; i < len(filter.Options); i++ {
      key, value := strings.TrimSpace(filter.Options[i].Key), strings.TrimSpace(filter.Options[i].Value)
      f.Options[key] = value
    }
    (*config)[SECTION_FILTERS][strconv.Itoa(index)] = f
  }

  return nil
}
