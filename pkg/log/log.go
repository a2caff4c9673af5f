package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls where diagnostics go. Console is stderr when nil so the
// chart on stdout stays readable.
type Options struct {
	Console io.Writer
	File    string
	NoTime  bool
}

// InitLogger initializes the global logger.
// It sets up a dual-output logger if a log file path is provided and accessible.
// Otherwise, it falls back to a console-only logger.
func InitLogger(opts Options) {
	out := opts.Console
	if out == nil {
		out = os.Stderr
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.DateTime,
		FormatLevel: func(i any) string {
			s, _ := i.(string)
			return colorizeLevel(s)
		},
		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("> %s", i)
		},
	}
	if opts.NoTime {
		consoleWriter.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	var writers []io.Writer
	writers = append(writers, consoleWriter)

	if opts.File != "" {
		logDir := filepath.Dir(opts.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Warn().Msgf("Could not create log directory '%s', file logging will be disabled: %v", logDir, err)
		} else {
			logFile, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				log.Warn().Msgf("Could not open log file '%s', file logging will be disabled: %v", opts.File, err)
			} else {
				writers = append(writers, logFile)
			}
		}
	}

	multi := zerolog.MultiLevelWriter(writers...)

	log.Logger = zerolog.New(multi).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetLogLevel sets the global logging level.
func SetLogLevel(level string) {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if level != "" {
			log.Warn().Msgf("Invalid log level '%s'. Using 'info' level.", level)
		}
		return
	}

	zerolog.SetGlobalLevel(logLevel)
}

func colorizeLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return "\033[36mDBG\033[0m" // Cyan
	case "info":
		return "\033[32mINF\033[0m" // Green
	case "warn":
		return "\033[33mWRN\033[0m" // Yellow
	case "error":
		return "\033[31mERR\033[0m" // Red
	case "fatal":
		return "\033[35mFTL\033[0m" // Magenta
	case "panic":
		return "\033[41mPNC\033[0m" // Red background
	default:
		return level
	}
}
