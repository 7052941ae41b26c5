package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
)

func TestNewSessionLayersSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("settings:\n  MARKET_FX_CACHE_TTL_SECS: 60\n  WEATHER_CACHE_TTL_SECS: 90\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewSession(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{
		domain.EnvConfigFile + "=" + path,
		"WEATHER_CACHE_TTL_SECS=120",
	})
	if s.ConfigErr != nil {
		t.Fatalf("unexpected config error: %v", s.ConfigErr)
	}
	if got := s.Env.Get("MARKET_FX_CACHE_TTL_SECS"); got != "60" {
		t.Fatalf("settings file value = %q", got)
	}
	if got := s.Env.Get("WEATHER_CACHE_TTL_SECS"); got != "120" {
		t.Fatalf("environment should win, got %q", got)
	}
	if s.IsTerminal {
		t.Fatal("a buffer is never a terminal")
	}
}

func TestNewSessionKeepsSettingsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte("settings: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewSession(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{
		domain.EnvConfigFile + "=" + path,
		"BILIBILI_UID=session-secret-uid",
	})
	if s.ConfigErr == nil {
		t.Fatal("expected a settings error")
	}
	if got := s.Env.Get("BILIBILI_UID"); got != "session-secret-uid" {
		t.Fatalf("process environment should still apply, got %q", got)
	}
	if strings.Contains(s.Redactor.Redact("uid session-secret-uid"), "session-secret-uid") {
		t.Fatal("redactor should mask the credential value")
	}
}
