package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	weatherapp "github.com/graysurf/nils-alfredworkflow-sub001/internal/application/weather"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cache"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/security"
)

var fixedNow = time.Date(2026, 2, 10, 13, 0, 0, 0, time.UTC)

type runResult struct {
	stdout string
	stderr string
	code   int
}

func runCLI(t *testing.T, build func(*cli.Session) *cobra.Command, env domain.Env, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	s := &cli.Session{
		Stdout:   &stdout,
		Stderr:   &stderr,
		Env:      env,
		Now:      func() time.Time { return fixedNow },
		Sleeper:  provider.NoSleep,
		Redactor: security.NewRedactor(env),
	}
	code := cli.Execute(context.Background(), build(s), s, args)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

type envelope struct {
	SchemaVersion string                 `json:"schema_version"`
	Command       string                 `json:"command"`
	OK            bool                   `json:"ok"`
	Result        map[string]interface{} `json:"result"`
	Error         *domain.ErrorInfo      `json:"error"`
}

func decodeEnvelope(t *testing.T, out string) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("stdout is not an envelope: %v\n%s", err, out)
	}
	if env.SchemaVersion != "v1" {
		t.Fatalf("schema_version = %q", env.SchemaVersion)
	}
	return env
}

func decodeFeedback(t *testing.T, out string) domain.Feedback {
	t.Helper()
	var fb domain.Feedback
	if err := json.Unmarshal([]byte(out), &fb); err != nil {
		t.Fatalf("stdout is not Alfred feedback: %v\n%s", err, out)
	}
	return fb
}

func cacheStatus(t *testing.T, result map[string]interface{}) string {
	t.Helper()
	meta, ok := result["cache"].(map[string]interface{})
	if !ok {
		t.Fatalf("result has no cache block: %v", result)
	}
	status, _ := meta["status"].(string)
	return status
}

func TestMarketFXLiveThenCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"rates":{"TWD":32.1234}}`))
	}))
	defer srv.Close()
	env := domain.Env{
		"MARKET_CACHE_DIR":       t.TempDir(),
		"MARKET_FRANKFURTER_URL": srv.URL,
	}
	args := []string{"fx", "--base", "USD", "--quote", "TWD", "--amount", "100", "--json"}

	first := runCLI(t, NewMarketRoot, env, args...)
	if first.code != 0 {
		t.Fatalf("exit %d, stderr %q", first.code, first.stderr)
	}
	got := decodeEnvelope(t, first.stdout)
	if !got.OK || got.Command != "market.fx" || got.Error != nil {
		t.Fatalf("unexpected envelope %+v", got)
	}
	if got.Result["unit_price"] != "32.1234" || cacheStatus(t, got.Result) != "live" {
		t.Fatalf("unexpected result %v", got.Result)
	}
	if !strings.Contains(first.stdout, `"error":null`) {
		t.Fatalf("error must serialize as null: %s", first.stdout)
	}

	second := decodeEnvelope(t, runCLI(t, NewMarketRoot, env, args...).stdout)
	if cacheStatus(t, second.Result) != "cache_hit" || calls != 1 {
		t.Fatalf("expected cache hit after one upstream call, got %v after %d calls", second.Result, calls)
	}
}

func TestMarketCryptoFallbackTrace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/coinbase") {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"Too many requests"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":{"XXBTZUSD":{"c":["67321.1","0.1"]}}}`))
	}))
	defer srv.Close()
	env := domain.Env{
		"MARKET_CACHE_DIR":    t.TempDir(),
		"MARKET_COINBASE_URL": srv.URL + "/coinbase",
		"MARKET_KRAKEN_URL":   srv.URL + "/kraken",
	}

	res := runCLI(t, NewMarketRoot, env, "crypto", "--base", "BTC", "--quote", "USD", "--mode", "service-json")
	got := decodeEnvelope(t, res.stdout)
	if res.code != 0 || !got.OK || got.Result["provider"] != "kraken" || cacheStatus(t, got.Result) != "live" {
		t.Fatalf("exit %d, envelope %+v", res.code, got)
	}
	trace, _ := got.Result["provider_trace"].([]interface{})
	if len(trace) == 0 || !strings.Contains(trace[0].(string), "coinbase: ") ||
		!strings.Contains(trace[0].(string), "Too many requests") {
		t.Fatalf("trace = %v", trace)
	}
}

func TestMarketAlfredItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"TWD":32.1234}}`))
	}))
	defer srv.Close()
	env := domain.Env{"MARKET_CACHE_DIR": t.TempDir(), "MARKET_FRANKFURTER_URL": srv.URL}

	res := runCLI(t, NewMarketRoot, env, "fx", "--base", "usd", "--quote", "twd", "--amount", "100")
	if res.code != 0 {
		t.Fatalf("exit %d, stderr %q", res.code, res.stderr)
	}
	fb := decodeFeedback(t, res.stdout)
	if len(fb.Items) != 1 {
		t.Fatalf("items = %+v", fb.Items)
	}
	item := fb.Items[0]
	if item.Title != "100 USD = 3,212.34 TWD" || item.Arg != "3212.34" {
		t.Fatalf("unexpected item %+v", item)
	}
	if !strings.Contains(item.Subtitle, "1 USD = 32.1234 TWD") || !strings.Contains(item.Subtitle, "live") {
		t.Fatalf("subtitle = %q", item.Subtitle)
	}
}

func TestMarketUserErrorEnvelope(t *testing.T) {
	env := domain.Env{"MARKET_CACHE_DIR": t.TempDir(), "MARKET_FRANKFURTER_URL": "http://127.0.0.1:1"}

	res := runCLI(t, NewMarketRoot, env, "fx", "--base", "USD", "--quote", "TWD", "--amount", "0", "--json")
	if res.code != 2 {
		t.Fatalf("exit = %d, want 2", res.code)
	}
	got := decodeEnvelope(t, res.stdout)
	if got.OK || got.Error == nil || got.Error.Code != domain.CodeInvalidInput {
		t.Fatalf("unexpected envelope %+v", got)
	}
	if !strings.Contains(got.Error.Message, "amount must be positive") {
		t.Fatalf("message = %q", got.Error.Message)
	}
	if !strings.Contains(res.stdout, `"result":{}`) {
		t.Fatalf("failure result must be an empty object: %s", res.stdout)
	}
}

func TestOutputModeConflict(t *testing.T) {
	res := runCLI(t, NewMarketRoot, domain.Env{}, "fx", "--base", "USD", "--quote", "TWD", "--json", "--output", "human")
	if res.code != 2 {
		t.Fatalf("exit = %d, want 2", res.code)
	}
	got := decodeEnvelope(t, res.stdout)
	if got.OK || got.Error == nil || got.Error.Code != domain.CodeOutputModeConflict {
		t.Fatalf("unexpected envelope %+v", got)
	}
}

func TestUnknownFlagIsUserError(t *testing.T) {
	res := runCLI(t, NewMarketRoot, domain.Env{}, "fx", "--json", "--nope")
	if res.code != 2 {
		t.Fatalf("exit = %d, want 2", res.code)
	}
	got := decodeEnvelope(t, res.stdout)
	if got.Error == nil || got.Error.Code != domain.CodeInvalidInput {
		t.Fatalf("unexpected envelope %+v", got)
	}
}

func TestRootFlagErrorNamesTool(t *testing.T) {
	res := runCLI(t, NewMarketRoot, domain.Env{}, "--json", "--bogus")
	if res.code != 2 {
		t.Fatalf("exit = %d, want 2", res.code)
	}
	got := decodeEnvelope(t, res.stdout)
	if got.Command != "market-cli" || got.Error == nil || got.Error.Code != domain.CodeInvalidInput {
		t.Fatalf("unexpected envelope %+v", got)
	}
}

func TestWeatherStaleFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/geo"):
			_, _ = w.Write([]byte(`{"results":[{"name":"Taipei","latitude":25.05,"longitude":121.53}]}`))
		case strings.HasPrefix(r.URL.Path, "/om"):
			hj, _ := w.(http.Hijacker)
			conn, _, _ := hj.Hijack()
			_ = conn.Close()
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()
	root := t.TempDir()
	env := domain.Env{
		"WEATHER_CACHE_DIR":      root,
		"WEATHER_CACHE_TTL_SECS": "1800",
		"WEATHER_GEOCODING_URL":  srv.URL + "/geo",
		"WEATHER_OPEN_METEO_URL": srv.URL + "/om",
		"WEATHER_MET_NO_URL":     srv.URL + "/met",
	}
	stale := domain.CacheRecord[domain.WeatherReport]{
		Payload:   domain.WeatherReport{Location: domain.Location{Name: "Taipei"}, Date: "2026-02-10", Summary: "Fog"},
		Provider:  "open_meteo",
		FetchedAt: "2026-02-10T12:00:00Z",
	}
	if err := cache.Write(cache.Path(root, weatherapp.ToolName, "today-taipei"), stale); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, NewWeatherRoot, env, "today", "--city", "Taipei", "--json")
	got := decodeEnvelope(t, res.stdout)
	if res.code != 0 || !got.OK {
		t.Fatalf("exit %d, envelope %+v", res.code, got)
	}
	meta := got.Result["cache"].(map[string]interface{})
	if meta["status"] != "cache_stale_fallback" || meta["age_secs"] != float64(3600) {
		t.Fatalf("cache metadata = %v", meta)
	}
	if trace, _ := got.Result["provider_trace"].([]interface{}); len(trace) == 0 {
		t.Fatal("expected a provider trace")
	}

	listed := runCLI(t, NewWeatherRoot, env, "cache", "list", "--json")
	listing := decodeEnvelope(t, listed.stdout)
	entries, _ := listing.Result["entries"].([]interface{})
	if listed.code != 0 || len(entries) != 1 {
		t.Fatalf("exit %d, listing %+v", listed.code, listing)
	}
	if entry := entries[0].(map[string]interface{}); entry["key"] != "today-taipei" || entry["is_fresh"] != false {
		t.Fatalf("entry = %v", entry)
	}
}

func TestBilibiliSecretNotLeaked(t *testing.T) {
	const secret = "bilibili-contract-secret"
	env := domain.Env{"BILIBILI_UID": secret, "BILIBILI_SUGGEST_URL": "http://127.0.0.1:1"}

	res := runCLI(t, NewBilibiliRoot, env, "query", "--query", "", "--mode", "service-json")
	if res.code != 2 {
		t.Fatalf("exit = %d, want 2", res.code)
	}
	got := decodeEnvelope(t, res.stdout)
	if got.OK || got.Error == nil || got.Error.Code != domain.CodeInvalidInput {
		t.Fatalf("unexpected envelope %+v", got)
	}
	if strings.Contains(res.stdout, secret) || strings.Contains(res.stderr, secret) {
		t.Fatalf("secret leaked: stdout %q stderr %q", res.stdout, res.stderr)
	}
}

func TestBilibiliUpstreamFailureRedactsUID(t *testing.T) {
	const secret = "bilibili-contract-secret"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"bad uid ` + r.URL.Query().Get("userid") + `"}`))
	}))
	defer srv.Close()
	env := domain.Env{"BILIBILI_UID": secret, "BILIBILI_SUGGEST_URL": srv.URL}

	res := runCLI(t, NewBilibiliRoot, env, "query", "--query", "go", "--json")
	if res.code != 1 {
		t.Fatalf("exit = %d, want 1", res.code)
	}
	if strings.Contains(res.stdout, secret) || !strings.Contains(res.stdout, domain.RedactedValue) {
		t.Fatalf("stdout = %s", res.stdout)
	}
}

func TestBilibiliAlfredDegradesErrors(t *testing.T) {
	res := runCLI(t, NewBilibiliRoot, domain.Env{}, "query", "--query", " ")
	if res.code != 0 || res.stderr != "" {
		t.Fatalf("exit %d, stderr %q", res.code, res.stderr)
	}
	fb := decodeFeedback(t, res.stdout)
	if len(fb.Items) != 1 || fb.Items[0].Valid == nil || *fb.Items[0].Valid {
		t.Fatalf("expected one invalid item, got %+v", fb.Items)
	}
}

func TestBilibiliSuggestionItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"result":{"tag":[{"value":"golang"},{"value":"go 教程"}]}}`))
	}))
	defer srv.Close()

	res := runCLI(t, NewBilibiliRoot, domain.Env{"BILIBILI_SUGGEST_URL": srv.URL}, "query", "--query", "go")
	fb := decodeFeedback(t, res.stdout)
	if res.code != 0 || len(fb.Items) != 2 {
		t.Fatalf("exit %d, items %+v", res.code, fb.Items)
	}
	if fb.Items[0].Arg != bilibiliSearchURL+"golang" || fb.Items[0].Autocomplete != "golang" {
		t.Fatalf("unexpected item %+v", fb.Items[0])
	}
	if fb.Items[1].Arg != bilibiliSearchURL+"go+%E6%95%99%E7%A8%8B" {
		t.Fatalf("arg = %q", fb.Items[1].Arg)
	}
}

func TestMemoAddListSearch(t *testing.T) {
	env := domain.Env{"MEMO_DB_PATH": filepath.Join(t.TempDir(), "memo.db")}

	for _, text := range []string{"buy milk", "call the bank", "buy stamps"} {
		if res := runCLI(t, NewMemoRoot, env, "add", "--text", text, "--json"); res.code != 0 {
			t.Fatalf("add %q: exit %d, stdout %s", text, res.code, res.stdout)
		}
	}

	listed := decodeEnvelope(t, runCLI(t, NewMemoRoot, env, "list", "--json").stdout)
	memos, _ := listed.Result["memos"].([]interface{})
	if len(memos) != 3 || memos[0].(map[string]interface{})["text"] != "buy stamps" {
		t.Fatalf("list = %v", listed.Result)
	}

	res := runCLI(t, NewMemoRoot, env, "search", "--query", "buy")
	fb := decodeFeedback(t, res.stdout)
	if res.code != 0 || len(fb.Items) != 2 || fb.Items[0].UID == "" {
		t.Fatalf("exit %d, items %+v", res.code, fb.Items)
	}

	empty := runCLI(t, NewMemoRoot, env, "add", "--text", "  ", "--json")
	if empty.code != 2 {
		t.Fatalf("empty memo exit = %d, want 2", empty.code)
	}
}

func TestMemoAddRejectsBlankBeforeOpening(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "memo.db")
	res := runCLI(t, NewMemoRoot, domain.Env{"MEMO_DB_PATH": dbPath}, "add", "--text", " \t ", "--json")
	if res.code != 2 {
		t.Fatalf("exit = %d, want 2", res.code)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("database should not be created for a rejected memo, stat err = %v", err)
	}
}

func TestProjectSearchAndRecord(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"alpha", "beta"} {
		if err := os.MkdirAll(filepath.Join(root, name, ".git"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	env := domain.Env{
		"PROJECT_DIRS":       root,
		"PROJECT_USAGE_FILE": filepath.Join(t.TempDir(), "usage.log"),
	}

	recorded := runCLI(t, NewProjectRoot, env, "record", "--path", filepath.Join(root, "beta"), "--json")
	if recorded.code != 0 {
		t.Fatalf("record exit %d, stdout %s", recorded.code, recorded.stdout)
	}

	res := runCLI(t, NewProjectRoot, env, "search")
	fb := decodeFeedback(t, res.stdout)
	if res.code != 0 || len(fb.Items) != 2 {
		t.Fatalf("exit %d, items %+v", res.code, fb.Items)
	}
	if fb.Items[0].Title != "beta" || fb.Items[1].Title != "alpha" {
		t.Fatalf("recently used project should come first: %+v", fb.Items)
	}

	missing := runCLI(t, NewProjectRoot, env, "record", "--path", filepath.Join(root, "gone"), "--json")
	if missing.code != 2 {
		t.Fatalf("missing path exit = %d, want 2", missing.code)
	}
}

func TestHumanOutput(t *testing.T) {
	env := domain.Env{"MEMO_DB_PATH": filepath.Join(t.TempDir(), "memo.db")}
	res := runCLI(t, NewMemoRoot, env, "list", "--output", "human")
	if res.code != 0 || res.stdout != "No memos found\n" {
		t.Fatalf("exit %d, stdout %q", res.code, res.stdout)
	}
}

func TestVersionEnvelope(t *testing.T) {
	res := runCLI(t, NewProjectRoot, domain.Env{}, "version", "--json")
	got := decodeEnvelope(t, res.stdout)
	if res.code != 0 || got.Command != "version" || got.Result["tool"] != "project-cli" {
		t.Fatalf("exit %d, envelope %+v", res.code, got)
	}
}
