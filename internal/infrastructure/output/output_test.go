package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/security"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/pkg/textutil"
)

func newEmitter(env domain.Env) (Emitter, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return Emitter{Stdout: &stdout, Stderr: &stderr, Redactor: security.NewRedactor(env)}, &stdout, &stderr
}

func decodeEnvelope(t *testing.T, data []byte) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("stdout is not JSON: %v (%q)", err, data)
	}
	for _, key := range []string{"schema_version", "command", "ok", "result", "error"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("envelope missing %q: %s", key, data)
		}
	}
	if string(raw["schema_version"]) != `"v1"` {
		t.Fatalf("schema_version = %s", raw["schema_version"])
	}
	return raw
}

func TestEmitJSONSuccess(t *testing.T) {
	e, stdout, stderr := newEmitter(domain.Env{})
	code := e.Emit(domain.OutputJSON, Response{Command: "market.fx", Result: map[string]string{"unit_price": "32.1234"}}, nil)
	if code != 0 || stderr.Len() != 0 {
		t.Fatalf("code %d stderr %q", code, stderr.String())
	}
	raw := decodeEnvelope(t, stdout.Bytes())
	if string(raw["ok"]) != "true" || string(raw["error"]) != "null" {
		t.Fatalf("unexpected envelope %s", stdout.String())
	}
}

func TestEmitJSONFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{name: "user", err: domain.InvalidInput("amount must be positive"), wantCode: "user.invalid_input", wantExit: 2},
		{name: "runtime", err: domain.NewError(domain.CodeUpstreamUnavailable, "down"), wantCode: "runtime.upstream_unavailable", wantExit: 1},
		{name: "unclassified", err: errors.New("boom"), wantCode: "runtime.internal", wantExit: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, stdout, stderr := newEmitter(domain.Env{})
			code := e.Emit(domain.OutputJSON, Response{Command: "market.fx"}, tt.err)
			if code != tt.wantExit || stderr.Len() != 0 {
				t.Fatalf("code %d stderr %q", code, stderr.String())
			}
			var env struct {
				OK     bool             `json:"ok"`
				Result *json.RawMessage `json:"result"`
				Error  struct {
					Code    string                 `json:"code"`
					Details map[string]interface{} `json:"details"`
				} `json:"error"`
			}
			raw := decodeEnvelope(t, stdout.Bytes())
			if string(raw["result"]) != "{}" {
				t.Fatalf("failure result = %s, want an empty object", raw["result"])
			}
			if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
				t.Fatal(err)
			}
			if env.OK || env.Error.Code != tt.wantCode || env.Error.Details == nil {
				t.Fatalf("unexpected envelope %s", stdout.String())
			}
		})
	}
}

func TestEmitJSONRedactsSuccessTrace(t *testing.T) {
	secret := "bilibili-contract-secret"
	result := domain.MarketResult{
		Provider:      "kraken",
		ProviderTrace: []string{"coinbase: HTTP 401: bad key " + secret},
	}
	e, stdout, _ := newEmitter(domain.Env{"BILIBILI_UID": secret})
	if code := e.Emit(domain.OutputJSON, Response{Command: "market.crypto", Result: result}, nil); code != 0 {
		t.Fatalf("code = %d", code)
	}
	if strings.Contains(stdout.String(), secret) || !strings.Contains(stdout.String(), domain.RedactedValue) {
		t.Fatalf("trace not redacted: %s", stdout.String())
	}
	if result.ProviderTrace[0] != "coinbase: HTTP 401: bad key "+secret {
		t.Fatal("redaction must not mutate the caller's result")
	}
}

func TestEmitRedactsSecrets(t *testing.T) {
	secret := "bilibili-contract-secret"
	err := domain.InvalidInput("lookup for uid %s failed", secret).
		WithDetail("url", "https://example.test/?userid="+secret+"&token=abc")

	for _, mode := range []domain.OutputMode{domain.OutputJSON, domain.OutputAlfred, domain.OutputHuman} {
		e, stdout, stderr := newEmitter(domain.Env{"BILIBILI_UID": secret})
		e.Emit(mode, Response{Command: "bilibili.query"}, err)
		for name, stream := range map[string]string{"stdout": stdout.String(), "stderr": stderr.String()} {
			if strings.Contains(stream, secret) || strings.Contains(stream, "token=abc") {
				t.Fatalf("%s leaked a secret in %s: %q", mode, name, stream)
			}
		}
	}
}

func TestEmitAlfred(t *testing.T) {
	e, stdout, stderr := newEmitter(domain.Env{})
	long := strings.Repeat("word  \n", 60)
	code := e.Emit(domain.OutputAlfred, Response{
		Command: "memo.list",
		Feedback: func() domain.Feedback {
			return domain.Feedback{Items: []domain.Item{{Title: "a", Subtitle: long, Arg: "1"}}}
		},
	}, nil)
	if code != 0 || stderr.Len() != 0 {
		t.Fatalf("code %d stderr %q", code, stderr.String())
	}
	var fb domain.Feedback
	if err := json.Unmarshal(stdout.Bytes(), &fb); err != nil {
		t.Fatal(err)
	}
	sub := fb.Items[0].Subtitle
	if utf8.RuneCountInString(sub) != domain.SubtitleMaxRunes || !strings.HasSuffix(sub, "...") || strings.Contains(sub, "\n") {
		t.Fatalf("subtitle not normalized: %q", sub)
	}
	if strings.Contains(stdout.String(), `"valid"`) || strings.Contains(stdout.String(), `"uid"`) {
		t.Fatalf("unset optional fields must be omitted: %s", stdout.String())
	}
}

func TestEmitAlfredEmptyList(t *testing.T) {
	e, stdout, _ := newEmitter(domain.Env{})
	e.Emit(domain.OutputAlfred, Response{Command: "memo.list"}, nil)
	if strings.TrimSpace(stdout.String()) != `{"items":[]}` {
		t.Fatalf("got %q", stdout.String())
	}
}

func TestEmitAlfredErrors(t *testing.T) {
	err := domain.InvalidInput("query must not be empty")

	e, stdout, stderr := newEmitter(domain.Env{})
	if code := e.Emit(domain.OutputAlfred, Response{Command: "market.fx"}, err); code != 2 {
		t.Fatalf("code = %d", code)
	}
	if stdout.Len() != 0 || stderr.String() != "error: query must not be empty\n" {
		t.Fatalf("stdout %q stderr %q", stdout.String(), stderr.String())
	}

	e, stdout, stderr = newEmitter(domain.Env{})
	if code := e.Emit(domain.OutputAlfred, Response{Command: "bilibili.query", DegradeErrors: true}, err); code != 0 {
		t.Fatalf("degraded code = %d", code)
	}
	var fb domain.Feedback
	if err := json.Unmarshal(stdout.Bytes(), &fb); err != nil {
		t.Fatal(err)
	}
	if len(fb.Items) != 1 || fb.Items[0].Valid == nil || *fb.Items[0].Valid || stderr.Len() != 0 {
		t.Fatalf("unexpected degraded feedback %s / %q", stdout.String(), stderr.String())
	}
}

func TestEmitHuman(t *testing.T) {
	e, stdout, _ := newEmitter(domain.Env{})
	code := e.Emit(domain.OutputHuman, Response{
		Command: "memo.add",
		Human: func(w io.Writer) error {
			_, err := io.WriteString(w, "saved\n")
			return err
		},
	}, nil)
	if code != 0 || stdout.String() != "saved\n" {
		t.Fatalf("code %d stdout %q", code, stdout.String())
	}
}

func TestEmitJSONUnencodableResult(t *testing.T) {
	e, stdout, _ := newEmitter(domain.Env{})
	code := e.Emit(domain.OutputJSON, Response{Command: "x", Result: map[string]interface{}{"f": func() {}}}, nil)
	if code != 1 {
		t.Fatalf("code = %d", code)
	}
	raw := decodeEnvelope(t, stdout.Bytes())
	if string(raw["ok"]) != "false" {
		t.Fatalf("unexpected envelope %s", stdout.String())
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "  a \t b  ", strings.Repeat("長", 200), strings.Repeat("ab ", 50) + "\n tail"}
	for _, in := range inputs {
		once := textutil.NormalizeSubtitle(in, domain.SubtitleMaxRunes)
		if twice := textutil.NormalizeSubtitle(once, domain.SubtitleMaxRunes); twice != once {
			t.Fatalf("not idempotent for %q: %q vs %q", in, once, twice)
		}
		if utf8.RuneCountInString(once) > domain.SubtitleMaxRunes {
			t.Fatalf("too long: %q", once)
		}
	}
}
