// Package output renders command results as Alfred feedback, service
// envelopes or plain text, and maps failures onto exit codes.
package output

import (
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/security"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/pkg/textutil"
)

// Success wraps result in a v1 envelope.
func Success(command string, result interface{}) domain.Envelope {
	return domain.Envelope{
		SchemaVersion: domain.SchemaVersion,
		Command:       command,
		OK:            true,
		Result:        result,
	}
}

// Failure wraps info in a v1 envelope. The result is an empty object.
func Failure(command string, info domain.ErrorInfo) domain.Envelope {
	return domain.Envelope{
		SchemaVersion: domain.SchemaVersion,
		Command:       command,
		OK:            false,
		Result:        map[string]interface{}{},
		Error:         &info,
	}
}

// ErrorInfo classifies err and redacts its message and details.
// Unclassified errors become runtime.internal.
func ErrorInfo(err error, redactor *security.Redactor) domain.ErrorInfo {
	appErr := domain.AsAppError(err)
	if appErr == nil {
		appErr = domain.NewError(domain.CodeInternal, "unknown error")
	}
	return domain.ErrorInfo{
		Code:      appErr.Code,
		Message:   redactor.Redact(appErr.Message),
		Retryable: appErr.Retryable,
		Details:   redactor.RedactDetails(appErr.Details),
	}
}

// ExitCode maps err onto the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return domain.ExitOK
	}
	return domain.AsAppError(err).Kind().ExitCode()
}

// NormalizeFeedback returns fb with every subtitle normalized and a non-nil
// item list.
func NormalizeFeedback(fb domain.Feedback) domain.Feedback {
	items := make([]domain.Item, len(fb.Items))
	for i, item := range fb.Items {
		item.Subtitle = textutil.NormalizeSubtitle(item.Subtitle, domain.SubtitleMaxRunes)
		items[i] = item
	}
	return domain.Feedback{Items: items}
}

// ErrorItem is the single non-actionable row shown when a list cannot be built.
func ErrorItem(message string) domain.Item {
	return domain.Item{
		Title:    "Error",
		Subtitle: message,
		Valid:    domain.Bool(false),
	}
}
