package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// setupLogging configures the global logrus logger: stderr, coloured only on a
// terminal, plus an optional rotating file. The returned closer flushes the file.
func setupLogging(level, file string) io.Closer {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)

	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: !tty,
	})

	if file == "" {
		file = os.Getenv(envLogFile)
	}
	if file == "" {
		logrus.SetOutput(os.Stderr)
		return nopCloser{}
	}

	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     30, // days
		Compress:   true,
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, rotating))
	return rotating
}
