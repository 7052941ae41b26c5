package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
)

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"api-server/.git", "web-app/.git", "api-client/.git"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := config.LoadProject(domain.Env{
		"PROJECT_DIRS":       root,
		"PROJECT_USAGE_FILE": filepath.Join(t.TempDir(), "usage.log"),
	})
	if err != nil {
		t.Fatalf("LoadProject error: %v", err)
	}
	clock := time.Date(2026, 2, 10, 13, 0, 0, 0, time.UTC)
	return &Service{Config: cfg, Now: func() time.Time { return clock }}, root
}

func TestSearchOrdersByRecentUse(t *testing.T) {
	svc, root := newService(t)

	all, err := svc.Search("")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(all) != 3 || all[0].Name != "api-client" || all[2].Name != "web-app" {
		t.Fatalf("unexpected default order %+v", all)
	}

	if _, err := svc.Record(filepath.Join(root, "web-app")); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	all, err = svc.Search("")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if all[0].Name != "web-app" || all[0].LastUsed == nil {
		t.Fatalf("recently used project should come first: %+v", all)
	}

	api, err := svc.Search("API ser")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(api) != 1 || api[0].Name != "api-server" {
		t.Fatalf("unexpected filtered result %+v", api)
	}
}

func TestRecordRejectsMissingDirectory(t *testing.T) {
	svc, root := newService(t)
	for _, path := range []string{"", filepath.Join(root, "nope")} {
		_, err := svc.Record(path)
		if appErr := domain.AsAppError(err); appErr == nil || appErr.Code != domain.CodeInvalidInput {
			t.Fatalf("Record(%q): expected user.invalid_input, got %v", path, err)
		}
	}
}
