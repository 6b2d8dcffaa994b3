package config

import (
  "errors"
  "strings"
  "testing"

  "github.com/stretchr/testify/require"
)

const jsonSample = `{
  "output": { "file": "out/anim.gif" },
  "input": {
    "static": true,
    "files": [ "frame1.png", "frame2.gif:0:5" ]
  },
  "settings": { "width": 320, "height": 200, "delay": 80, "quality": 5, "repeat": 3 },
  "filters": [
    { "name": "invert", "options": [ { "key": "red", "value": "false" } ] }
  ]
}`

const xmlSample = `<generator>
  <output><file>anim.gif</file></output>
  <input>
    <static>false</static>
    <filesequence>
      <path>frames</path>
      <prefix>frame_</prefix>
      <suffixstart>0</suffixstart>
      <suffixend>9</suffixend>
      <suffixlength>3</suffixlength>
      <ext>.png</ext>
    </filesequence>
  </input>
  <settings>
    <width>64</width>
    <height>48</height>
    <delay>40</delay>
    <quality>1</quality>
    <repeat>-1</repeat>
  </settings>
  <filters>
    <filter>
      <name>mirror</name>
      <option><key>horizontal</key><value>true</value></option>
    </filter>
  </filters>
</generator>`


func TestImportConfigJson(t *testing.T) {
  cfg, err := ImportConfig(strings.NewReader(jsonSample))
  require.NoError(t, err)
  require.NotNil(t, cfg)

  text, ok := cfg.GetConfigValueText(SECTION_OUTPUT, KEY_OUTPUT_PATH)
  require.True(t, ok)
  require.Equal(t, "out/anim.gif", text)

  b, ok := cfg.GetConfigValueBool(SECTION_INPUT, KEY_INPUT_STATIC)
  require.True(t, ok)
  require.True(t, b)

  files, ok := cfg.GetConfigValueTextSeq(SECTION_INPUT, KEY_INPUT_FILES)
  require.True(t, ok)
  require.Equal(t, []string{"frame1.png", "frame2.gif:0:5"}, files)

  for key, expected := range map[string]int64{ KEY_WIDTH: 320, KEY_HEIGHT: 200, KEY_DELAY: 80,
                                               KEY_QUALITY: 5, KEY_REPEAT: 3 } {
    i, ok := cfg.GetConfigValueInt(SECTION_SETTINGS, key)
    require.True(t, ok, "key %q", key)
    require.Equal(t, expected, i, "key %q", key)
  }

  require.Equal(t, 1, cfg.GetConfigFilterLength())
  name, ok := cfg.GetConfigFilterName(0)
  require.True(t, ok)
  require.Equal(t, "invert", name)
  options, ok := cfg.GetConfigFilterOptions(0)
  require.True(t, ok)
  require.Equal(t, [][]string{{"red", "false"}}, options)
}


func TestImportConfigJsonDefaults(t *testing.T) {
  cfg, err := ImportConfig(strings.NewReader(`{}`))
  require.NoError(t, err)

  text, _ := cfg.GetConfigValueText(SECTION_OUTPUT, KEY_OUTPUT_PATH)
  require.Equal(t, "default.gif", text)

  i, _ := cfg.GetConfigValueInt(SECTION_SETTINGS, KEY_DELAY)
  require.Equal(t, int64(100), i)
  i, _ = cfg.GetConfigValueInt(SECTION_SETTINGS, KEY_QUALITY)
  require.Equal(t, int64(10), i)
  i, _ = cfg.GetConfigValueInt(SECTION_SETTINGS, KEY_REPEAT)
  require.Equal(t, int64(0), i)
  i, _ = cfg.GetConfigValueInt(SECTION_INPUT, KEY_INPUT_SUFFIX_LEN)
  require.Equal(t, int64(1), i)

  require.Equal(t, 0, cfg.GetConfigFilterLength())
}


func TestImportConfigXml(t *testing.T) {
  cfg, err := ImportConfig(strings.NewReader(xmlSample))
  require.NoError(t, err)
  require.NotNil(t, cfg)

  text, ok := cfg.GetConfigValueText(SECTION_OUTPUT, KEY_OUTPUT_PATH)
  require.True(t, ok)
  require.Equal(t, "anim.gif", text)

  b, ok := cfg.GetConfigValueBool(SECTION_INPUT, KEY_INPUT_STATIC)
  require.True(t, ok)
  require.False(t, b)

  text, _ = cfg.GetConfigValueText(SECTION_INPUT, KEY_INPUT_PATH)
  require.Equal(t, "frames", text)
  text, _ = cfg.GetConfigValueText(SECTION_INPUT, KEY_INPUT_PREFIX)
  require.Equal(t, "frame_", text)
  text, _ = cfg.GetConfigValueText(SECTION_INPUT, KEY_INPUT_EXT)
  require.Equal(t, "png", text)  // leading dot is stripped

  i, _ := cfg.GetConfigValueInt(SECTION_INPUT, KEY_INPUT_SUFFIX_START)
  require.Equal(t, int64(0), i)
  i, _ = cfg.GetConfigValueInt(SECTION_INPUT, KEY_INPUT_SUFFIX_END)
  require.Equal(t, int64(9), i)
  i, _ = cfg.GetConfigValueInt(SECTION_INPUT, KEY_INPUT_SUFFIX_LEN)
  require.Equal(t, int64(3), i)

  for key, expected := range map[string]int64{ KEY_WIDTH: 64, KEY_HEIGHT: 48, KEY_DELAY: 40,
                                               KEY_QUALITY: 1, KEY_REPEAT: -1 } {
    i, ok := cfg.GetConfigValueInt(SECTION_SETTINGS, key)
    require.True(t, ok, "key %q", key)
    require.Equal(t, expected, i, "key %q", key)
  }

  name, ok := cfg.GetConfigFilterName(0)
  require.True(t, ok)
  require.Equal(t, "mirror", name)
  options, _ := cfg.GetConfigFilterOptions(0)
  require.Equal(t, [][]string{{"horizontal", "true"}}, options)
}


func TestImportConfigValidation(t *testing.T) {
  _, err := ImportConfig(strings.NewReader(`no config here`))
  require.Error(t, err)

  _, err = ImportConfig(strings.NewReader(`{ "settings": { "width": 70000 } }`))
  require.Error(t, err)

  _, err = ImportConfig(strings.NewReader(`{ "settings": { "repeat": -2 } }`))
  require.Error(t, err)

  _, err = ImportConfig(strings.NewReader(`{ "input": { "filesequence": { "suffixlength": 0 } } }`))
  require.Error(t, err)

  _, err = ImportConfig(strings.NewReader("<generator><settings><delay>-5</delay></settings></generator>"))
  require.Error(t, err)
}


// Serves a prefix of the configuration data, then fails.
type brokenReader struct {
  data  []byte
  pos   int
}

func (r *brokenReader) Read(p []byte) (int, error) {
  if r.pos >= len(r.data) { return 0, errors.New("read failure") }
  n := copy(p, r.data[r.pos:])
  r.pos += n
  return n, nil
}


// A failing source must surface the read error instead of parsing the partial buffer.
func TestImportConfigReadError(t *testing.T) {
  _, err := ImportConfig(&brokenReader{data: []byte(jsonSample[:40])})
  require.EqualError(t, err, "read failure")
}


func TestAssembleFilePath(t *testing.T) {
  require.Equal(t, "frames/frame_007.png", AssembleFilePath("frames", "frame_", "png", 7, 3))
  require.Equal(t, "frames/frame_007.png", AssembleFilePath("frames/", "frame_", ".png", 7, 3))
  require.Equal(t, "frames/frame_-05.png", AssembleFilePath("frames", "frame_", "png", -5, 3))
  require.Equal(t, "a/b/12.gif", AssembleFilePath("a/b", "", "gif", 12, 2))
}
