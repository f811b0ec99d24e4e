package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Dir   string
	Level string
	JSON  bool
	// Quiet drops the stdout copy, used when a terminal UI owns the screen.
	Quiet bool
}

// NewLogger builds a logrus logger writing to stdout and a rotated app.log
// under Dir. An empty Dir disables the file output. The returned closer
// flushes the log file.
func NewLogger(opts Options) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
	}
	log.SetLevel(level)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	var writers []io.Writer
	if !opts.Quiet {
		writers = append(writers, os.Stdout)
	}

	closer := io.Closer(nopCloser{})
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, os.ModePerm); err != nil {
			return nil, nil, errors.Wrap(err, "failed to create log directory")
		}
		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "app.log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		writers = append(writers, logFile)
		closer = logFile
	}

	switch len(writers) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(writers[0])
	default:
		log.SetOutput(io.MultiWriter(writers...))
	}

	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
