package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/security"
)

// Response carries one command outcome in every renderable form.
type Response struct {
	Command string
	Result  interface{}
	// Feedback builds the Alfred rows; nil renders an empty list.
	Feedback func() domain.Feedback
	// Human writes plain text; nil falls back to indented JSON of Result.
	Human func(w io.Writer) error
	// DegradeErrors renders alfred-mode failures as a single invalid item on
	// stdout with exit 0, so list-style workflows keep rendering.
	DegradeErrors bool
}

// traceRedactor is implemented by results that carry upstream provider text.
type traceRedactor interface {
	RedactTrace(redact func(string) string) interface{}
}

// Emitter writes responses to the process streams.
type Emitter struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Redactor *security.Redactor
}

// Emit renders resp (or err) for mode and returns the exit code.
func (e Emitter) Emit(mode domain.OutputMode, resp Response, err error) int {
	switch mode {
	case domain.OutputJSON:
		return e.emitJSON(resp, err)
	case domain.OutputHuman:
		return e.emitHuman(resp, err)
	default:
		return e.emitAlfred(resp, err)
	}
}

// EmitError renders a failure that happened before a command could run.
func (e Emitter) EmitError(mode domain.OutputMode, command string, err error) int {
	return e.Emit(mode, Response{Command: command}, err)
}

func (e Emitter) emitJSON(resp Response, err error) int {
	result := resp.Result
	if traced, ok := result.(traceRedactor); ok {
		result = traced.RedactTrace(e.Redactor.Redact)
	}
	envelope := Success(resp.Command, result)
	if err != nil {
		envelope = Failure(resp.Command, ErrorInfo(err, e.Redactor))
	}
	data, encErr := encodeJSON(envelope, false)
	if encErr != nil {
		err = domain.NewError(domain.CodeInternal, "encode result: "+encErr.Error())
		data, _ = encodeJSON(Failure(resp.Command, ErrorInfo(err, e.Redactor)), false)
	}
	if _, writeErr := e.Stdout.Write(data); writeErr != nil {
		return domain.ExitRuntime
	}
	return ExitCode(err)
}

func (e Emitter) emitAlfred(resp Response, err error) int {
	if err != nil {
		if !resp.DegradeErrors {
			return e.stderrLine(err)
		}
		info := ErrorInfo(err, e.Redactor)
		fb := NormalizeFeedback(domain.Feedback{Items: []domain.Item{ErrorItem(info.Message)}})
		if writeErr := writeJSON(e.Stdout, fb, false); writeErr != nil {
			return domain.ExitRuntime
		}
		return domain.ExitOK
	}

	fb := domain.Feedback{}
	if resp.Feedback != nil {
		fb = resp.Feedback()
	}
	if writeErr := writeJSON(e.Stdout, NormalizeFeedback(fb), false); writeErr != nil {
		return domain.ExitRuntime
	}
	return domain.ExitOK
}

func (e Emitter) emitHuman(resp Response, err error) int {
	if err != nil {
		return e.stderrLine(err)
	}
	if resp.Human != nil {
		if writeErr := resp.Human(e.Stdout); writeErr != nil {
			return domain.ExitRuntime
		}
		return domain.ExitOK
	}
	if writeErr := writeJSON(e.Stdout, resp.Result, true); writeErr != nil {
		return domain.ExitRuntime
	}
	return domain.ExitOK
}

func (e Emitter) stderrLine(err error) int {
	info := ErrorInfo(err, e.Redactor)
	fmt.Fprintf(e.Stderr, "error: %s\n", info.Message)
	return ExitCode(err)
}

func writeJSON(w io.Writer, v interface{}, indent bool) error {
	data, err := encodeJSON(v, indent)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func encodeJSON(v interface{}, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
