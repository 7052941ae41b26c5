package logger

import (
	"fmt"
	"io"
	"log"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// StdLogger is a lightweight implementation backed by Go's log package.
// It stays silent unless verbose, so machine-readable modes keep stderr empty.
type StdLogger struct {
	verbose  bool
	out      *log.Logger
	redactor ports.Redactor
}

// NewWithWriter creates a StdLogger writing to w. Every line passes through
// redactor when one is given.
func NewWithWriter(verbose bool, w io.Writer, redactor ports.Redactor) *StdLogger {
	return &StdLogger{
		verbose:  verbose,
		out:      log.New(w, "", log.LstdFlags),
		redactor: redactor,
	}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	l.print("[DEBUG]", msg, nil, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	l.print("[INFO]", msg, nil, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.print("[WARN]", msg, nil, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.print("[ERROR]", msg, err, fields)
}

func (l *StdLogger) print(level, msg string, err error, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	line := fmt.Sprintln(level, msg, fields)
	if err != nil {
		line = fmt.Sprintln(level, msg, err, fields)
	}
	if l.redactor != nil {
		line = l.redactor.Redact(line)
	}
	l.out.Print(line)
}

var _ ports.Logger = (*StdLogger)(nil)
