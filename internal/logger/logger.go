package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"

	"github.com/mattn/go-isatty"
)

// ********************************************************
// ********* LOGGING **************************************
// ********************************************************

// Logger is the abstract interface the rest of the module depends on.
// pkg/mcp never references the concrete type below directly, so a
// caller embedding this module can supply their own implementation.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

var showDateTime bool
var defaultLogger *ConsoleLogger
var logFile *os.File

type LogLevel int

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
	colorOrange  = "\033[38;5;208m"
)

const (
	DEBUG LogLevel = iota
	INFO
	INFORM
	HIGHLIGHT
	WARN
	ERROR
	FATAL
)

// ConsoleLogger is the module's default Logger implementation: a leveled,
// colorized logger that writes through the standard log package.
type ConsoleLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	level       LogLevel
	colorize    bool
}

func init() {
	defaultLogger = NewConsoleLogger(INFO)
	showDateTime = false
}

func updateLoggerFlags(l *ConsoleLogger) {
	var flags int
	if showDateTime {
		flags = log.Ldate | log.Ltime
	} else {
		flags = 0
	}
	l.infoLogger.SetFlags(flags)
	l.errorLogger.SetFlags(flags)
}

func SetShowDateTime(value bool) {
	showDateTime = value
	updateLoggerFlags(defaultLogger)
}

// SetLevel adjusts the default logger's minimum emitted level.
func SetLevel(level LogLevel) {
	defaultLogger.level = level
}

// SetLogOutput sets the output destination for logs.
// 'c' for console, 'f' for file, 'b' for both.
func SetLogOutput(outputType rune) {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	var infoWriter, errorWriter io.Writer
	colorize := false

	switch outputType {
	case 'c':
		infoWriter = os.Stdout
		errorWriter = os.Stderr
		colorize = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	case 'f':
		var err error
		logFile, err = os.OpenFile("/tmp/gomcp.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		infoWriter = logFile
		errorWriter = logFile
	case 'b':
		var err error
		logFile, err = os.OpenFile("/tmp/gomcp.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		infoWriter = io.MultiWriter(os.Stdout, logFile)
		errorWriter = io.MultiWriter(os.Stderr, logFile)
	default:
		fmt.Fprintf(os.Stderr, "Invalid log output type: %c\n", outputType)
		os.Exit(1)
	}

	var flags int
	if showDateTime {
		flags = log.Ldate | log.Ltime
	} else {
		flags = 0
	}

	defaultLogger.infoLogger = log.New(infoWriter, "", flags)
	defaultLogger.errorLogger = log.New(errorWriter, "", flags)
	defaultLogger.colorize = colorize
}

// NewConsoleLogger builds a standalone leveled logger writing to stdout/stderr.
// Color output is gated on stdout actually being a terminal, so piped or
// redirected output (log aggregators, `gomcp serve > out.log`) stays clean.
func NewConsoleLogger(level LogLevel) *ConsoleLogger {
	var flags int
	if showDateTime {
		flags = log.Ldate | log.Ltime
	} else {
		flags = 0
	}

	return &ConsoleLogger{
		infoLogger:  log.New(os.Stdout, "", flags),
		errorLogger: log.New(os.Stderr, "", flags),
		level:       level,
		colorize:    isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

func (l *ConsoleLogger) Debugf(format string, v ...any) { l.log(DEBUG, format, v...) }
func (l *ConsoleLogger) Infof(format string, v ...any)  { l.log(INFO, format, v...) }
func (l *ConsoleLogger) Warnf(format string, v ...any)  { l.log(WARN, format, v...) }
func (l *ConsoleLogger) Errorf(format string, v ...any) { l.log(ERROR, format, v...) }

func (l *ConsoleLogger) log(level LogLevel, format string, v ...any) {
	if level < l.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}
	file = filepath.Base(file)

	var msg string
	var jsonObjects []string

	if len(v) > 0 {
		_, jsonStrings := processArgs(v...)
		jsonObjects = jsonStrings
		msg = fmt.Sprintf(format, v...)
	} else {
		msg = format
	}

	colorCode, resetCode := "", ""
	if l.colorize {
		resetCode = colorReset
		switch level {
		case DEBUG:
			colorCode = colorBlue
		case INFO:
			colorCode = colorGreen
		case INFORM:
			colorCode = colorMagenta
		case HIGHLIGHT:
			colorCode = colorCyan
		case WARN:
			colorCode = colorYellow
		case ERROR:
			colorCode = colorOrange
		case FATAL:
			colorCode = colorRed
		default:
			colorCode = colorReset
		}
	}

	logMsg := fmt.Sprintf("[%s] %s:%d: %s%s%s",
		level.String(), file, line, colorCode, msg, resetCode)

	if level >= ERROR {
		l.errorLogger.Println(logMsg)
		for _, jsonObj := range jsonObjects {
			l.errorLogger.Println(fmt.Sprintf("[%s] %s:%d: %s%s%s",
				level.String(), file, line, colorCode, jsonObj, resetCode))
		}
	} else {
		l.infoLogger.Println(logMsg)
		for _, jsonObj := range jsonObjects {
			l.infoLogger.Println(fmt.Sprintf("[%s] %s:%d: %s%s%s",
				level.String(), file, line, colorCode, jsonObj, resetCode))
		}
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case INFORM:
		return "INFORM"
	case HIGHLIGHT:
		return "HIGHLIGHT"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// processArgs converts non-primitive arguments to indented JSON so structured
// payloads (requests, params, results) stay readable in the log stream.
func processArgs(args ...any) ([]string, []string) {
	if len(args) == 0 {
		return nil, nil
	}

	var primitives []string
	var jsonObjects []string

	for _, arg := range args {
		if isPrimitive(arg) {
			switch v := arg.(type) {
			case float32:
				primitives = append(primitives, fmt.Sprintf("%.2f", v))
			case float64:
				primitives = append(primitives, fmt.Sprintf("%.2f", v))
			case int:
				primitives = append(primitives, fmt.Sprintf("%d", v))
			case bool:
				primitives = append(primitives, fmt.Sprintf("%v", v))
			case string:
				primitives = append(primitives, v)
			case error:
				primitives = append(primitives, v.Error())
			case nil:
				primitives = append(primitives, "nil")
			default:
				primitives = append(primitives, fmt.Sprintf("%v", v))
			}
		} else {
			jsonBytes, err := json.MarshalIndent(arg, "", "  ")
			if err != nil {
				primitives = append(primitives, fmt.Sprintf("%v", arg))
			} else {
				primitives = append(primitives, fmt.Sprintf("[Object of type %s]", reflect.TypeOf(arg)))
				jsonObjects = append(jsonObjects, string(jsonBytes))
			}
		}
	}
	return primitives, jsonObjects
}

func isPrimitive(v any) bool {
	if v == nil {
		return true
	}

	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, error:
		return true
	default:
		return false
	}
}

// Convenience functions using the package default logger.
func Debug(format string, v ...any) {
	defaultLogger.log(DEBUG, format, v...)
}

func Info(format string, v ...any) {
	defaultLogger.log(INFO, format, v...)
}

func Inform(format string, v ...any) {
	defaultLogger.log(INFORM, format, v...)
}

func Highlight(format string, v ...any) {
	defaultLogger.log(HIGHLIGHT, format, v...)
}

func Warn(format string, v ...any) {
	defaultLogger.log(WARN, format, v...)
}

func Error(format string, v ...any) {
	defaultLogger.log(ERROR, format, v...)
}

func Fatal(format string, v ...any) {
	defaultLogger.log(FATAL, format, v...)
	os.Exit(1)
}

// Default returns the package default logger as a Logger, for wiring into
// components (e.g. pkg/mcp.Peer) that take the abstract interface.
func Default() Logger {
	return defaultLogger
}
