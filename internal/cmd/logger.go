package cmd

import (
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger writes to errOut and, when logFile is set, to a rotating file.
// The returned closer releases the file.
func NewLogger(errOut io.Writer, verbose bool, logFile string) (zerolog.Logger, io.Closer) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: errOut, NoColor: true, TimeFormat: "15:04:05"}
	if logFile == "" {
		return zerolog.New(console).Level(level).With().Timestamp().Logger(), nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		LocalTime:  true,
	}
	writer := zerolog.MultiLevelWriter(console, file)
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), file
}
