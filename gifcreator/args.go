package main
// Handles command line arguments for gifcreator.

import (
  "errors"
  "fmt"
  "os"

  "github.com/InfinityTools/go-cmdargs"
  "github.com/InfinityTools/go-logging"
)

const (
  CMDOPT_HELP = "help"
  CMDOPT_VERSION = "version"
  CMDOPT_VERBOSE = "verbose"
  CMDOPT_SILENT = "silent"
  CMDOPT_LOG_STYLE = "log-style"
  CMDOPT_THREADED = "threaded"
  CMDOPT_NO_THREADED = "no-threaded"
  CMDOPT_GIF_OUTPUT = "gif-output"
  CMDOPT_GIF_QUALITY = "gif-quality"
  CMDOPT_GIF_DELAY = "gif-delay"
  CMDOPT_GIF_REPEAT = "gif-repeat"
  CMDOPT_FILTER_OPTION = "filter"
)

type OptBool struct { value bool; set bool }
type OptInt struct { value int; set bool }
type OptText struct { value string; set bool }

type CmdOptions struct {
  help                OptBool
  version             OptBool
  verbose             OptBool
  logStyle            OptBool
  threaded            OptBool
  gifOutput           OptText
  gifQuality          OptInt
  gifDelay            OptInt
  gifRepeat           OptInt
  filterOption        []OptText
  optionsLength       int
  argSelf             string
  argsExtra           []string
}

var cmdOptions  CmdOptions


func loadArgs(args []string) error {
  params := cmdargs.Create()
  params.AddParameter(CMDOPT_HELP, nil, 0)
  params.AddParameter(CMDOPT_VERSION, nil, 0)
  params.AddParameter(CMDOPT_VERBOSE, nil, 0)
  params.AddParameter(CMDOPT_SILENT, nil, 0)
  params.AddParameter(CMDOPT_LOG_STYLE, nil, 0)
  params.AddParameter(CMDOPT_THREADED, nil, 0)
  params.AddParameter(CMDOPT_NO_THREADED, nil, 0)
  params.AddParameter(CMDOPT_GIF_OUTPUT, nil, 1)
  params.AddParameter(CMDOPT_GIF_QUALITY, nil, 1)
  params.AddParameter(CMDOPT_GIF_DELAY, nil, 1)
  params.AddParameter(CMDOPT_GIF_REPEAT, nil, 1)
  params.AddParameter(CMDOPT_FILTER_OPTION, nil, 1)

  err := params.Evaluate(args)
  if err != nil { return err }

  // validating extra arguments
  cmdOptions.argSelf = params.GetArgSelf()
  cmdOptions.argsExtra = make([]string, 0)
  for i := 0; i < params.GetArgExtraLength(); i++ {
    s := params.GetArgExtra(i).ToString()
    if s == "-" {
      // Add Stdin as is
      cmdOptions.argsExtra = append(cmdOptions.argsExtra, s)
    } else {
      // Expanding wildcard
      expanded := params.GetExpandedArgExtra(i)
      if len(expanded) == 0 { expanded = []string{s} }  // falling back to check directly
      for _, name := range expanded {
        fi, err := os.Stat(name)
        if err != nil { return fmt.Errorf("Configuration file at %d: %v", len(cmdOptions.argsExtra), err) }
        if !fi.Mode().IsRegular() { return fmt.Errorf("Configuration file does not exist: %q", name) }
        cmdOptions.argsExtra = append(cmdOptions.argsExtra, name)
      }
    }
  }

  // validating options
  cmdOptions.filterOption = make([]OptText, 0)
  cmdOptions.optionsLength = 0
  for idx := 0; idx < params.GetArgLength(); idx++ {
    arg, err := params.GetArgAt(idx)
    if err != nil {
      logging.Warnf("Could not parse command line option at index %d. Skipping...\n", idx)
      continue
    }
    switch arg.Name {
      case CMDOPT_HELP:
        if !cmdOptions.help.set { cmdOptions.optionsLength++ }
        cmdOptions.help = OptBool{true, true}
        return nil
      case CMDOPT_VERSION:
        if !cmdOptions.version.set { cmdOptions.optionsLength++ }
        cmdOptions.version = OptBool{true, true}
        return nil
      case CMDOPT_VERBOSE:
        if !cmdOptions.verbose.set { cmdOptions.optionsLength++ }
        cmdOptions.verbose = OptBool{true, true}
      case CMDOPT_SILENT:
        if !cmdOptions.verbose.set { cmdOptions.optionsLength++ }
        cmdOptions.verbose = OptBool{false, true}
      case CMDOPT_LOG_STYLE:
        if !cmdOptions.logStyle.set { cmdOptions.optionsLength++ }
        cmdOptions.logStyle = OptBool{true, true}
      case CMDOPT_THREADED:
        if !cmdOptions.threaded.set { cmdOptions.optionsLength++ }
        cmdOptions.threaded = OptBool{true, true}
      case CMDOPT_NO_THREADED:
        if !cmdOptions.threaded.set { cmdOptions.optionsLength++ }
        cmdOptions.threaded = OptBool{false, true}
      case CMDOPT_GIF_OUTPUT:
        if !cmdOptions.gifOutput.set { cmdOptions.optionsLength++ }
        if len(arg.Arguments) > 0 {
          s := arg.Arguments[0].ToString()
          if len(s) == 0 { return fmt.Errorf("Option %q: No GIF output file specified", arg.Name) }
          cmdOptions.gifOutput = OptText{s, true}
        }
      case CMDOPT_GIF_QUALITY:
        if !cmdOptions.gifQuality.set { cmdOptions.optionsLength++ }
        if len(arg.Arguments) > 0 {
          if i, x := arg.Arguments[0].Int(); x {
            cmdOptions.gifQuality = OptInt{int(i), true}
          } else {
            return fmt.Errorf("Option %q: Invalid argument %v", arg.Name, arg.Arguments[0])
          }
        }
      case CMDOPT_GIF_DELAY:
        if !cmdOptions.gifDelay.set { cmdOptions.optionsLength++ }
        if len(arg.Arguments) > 0 {
          if i, x := arg.Arguments[0].Int(); x && i >= 0 {
            cmdOptions.gifDelay = OptInt{int(i), true}
          } else {
            return fmt.Errorf("Option %q: Invalid argument %v", arg.Name, arg.Arguments[0])
          }
        }
      case CMDOPT_GIF_REPEAT:
        if !cmdOptions.gifRepeat.set { cmdOptions.optionsLength++ }
        if len(arg.Arguments) > 0 {
          if i, x := arg.Arguments[0].Int(); x && i >= -1 && i <= 65535 {
            cmdOptions.gifRepeat = OptInt{int(i), true}
          } else {
            return fmt.Errorf("Option %q: Invalid argument %v", arg.Name, arg.Arguments[0])
          }
        }
      case CMDOPT_FILTER_OPTION:
        if len(arg.Arguments) > 0 {
          cmdOptions.optionsLength++
          cmdOptions.filterOption = append(cmdOptions.filterOption, OptText{arg.Arguments[0].ToString(), true})
        }
      default:
        return fmt.Errorf("Unrecognized option: %q", arg.Name)
    }
  }

  // Invalid combination: Options, but no config files
  if len(cmdOptions.argsExtra) == 0 && cmdOptions.optionsLength > 0 {
    return errors.New("No configuration file specified")
  }

  return nil
}


func argsExtraLength() int {
  if cmdOptions.argsExtra == nil { return 0 }
  return len(cmdOptions.argsExtra)
}

func argsExtra(index int) string {
  if cmdOptions.argsExtra == nil { return "" }
  if index < 0 || index > len(cmdOptions.argsExtra) { return "" }
  return cmdOptions.argsExtra[index]
}

func argsLength() int {
  return cmdOptions.optionsLength
}

func argsHelp() (bool, bool) {
  return cmdOptions.help.value, cmdOptions.help.set
}

func argsVersion() (bool, bool) {
  return cmdOptions.version.value, cmdOptions.version.set
}

func argsVerbose() (bool, bool) {
  return cmdOptions.verbose.value, cmdOptions.verbose.set
}

func argsLogStyle() (bool, bool) {
  return cmdOptions.logStyle.value, cmdOptions.logStyle.set
}

func argsThreaded() (bool, bool) {
  return cmdOptions.threaded.value, cmdOptions.threaded.set
}

func argsGifOutput() (string, bool) {
  return cmdOptions.gifOutput.value, cmdOptions.gifOutput.set
}

func argsGifQuality() (int, bool) {
  return cmdOptions.gifQuality.value, cmdOptions.gifQuality.set
}

func argsGifDelay() (int, bool) {
  return cmdOptions.gifDelay.value, cmdOptions.gifDelay.set
}

func argsGifRepeat() (int, bool) {
  return cmdOptions.gifRepeat.value, cmdOptions.gifRepeat.set
}

func argsFilterOptions() ([]string, bool) {
  retVal := make([]string, len(cmdOptions.filterOption))
  for idx, v := range cmdOptions.filterOption {
    retVal[idx] = v.value
  }
  return retVal, len(cmdOptions.filterOption) > 0
}
