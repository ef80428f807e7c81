package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskdesk/taskdesk/internal/api"
	"github.com/taskdesk/taskdesk/internal/schema"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

// startAPI serves the API over httptest and returns its URL.
func startAPI(t *testing.T) string {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	reg, err := schema.Default()
	if err != nil {
		t.Fatalf("failed to load schema: %v", err)
	}
	repos, err := sqlite.New(db, reg)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	srv := httptest.NewServer(api.NewRouter(api.Options{
		DB:         db,
		Repos:      repos,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		BcryptCost: bcrypt.MinCost,
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestTaskCmd_CreateShowList(t *testing.T) {
	url := startAPI(t)
	dbPath := filepath.Join(t.TempDir(), "unused.db")

	out, err := runCLI(t, dbPath, "task", "create", "Write changelog", "--server", url,
		"--description", "For the 1.0 release", "--tag", "docs", "--tag", "release")
	if err != nil {
		t.Fatalf("create failed: %v (%s)", err, out)
	}
	if !strings.Contains(out, "Created task 1") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = runCLI(t, dbPath, "task", "show", "1", "--server", url)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"Write changelog", "For the 1.0 release", "docs, release", "TODO"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q: %s", want, out)
		}
	}

	out, err = runCLI(t, dbPath, "--json", "task", "list", "--server", url)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var list struct {
		Data []struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("failed to decode %q: %v", out, err)
	}
	if len(list.Data) != 1 || list.Data[0].Title != "Write changelog" {
		t.Errorf("unexpected list %+v", list)
	}

	out, err = runCLI(t, dbPath, "task", "list", "--status", "DONE", "--server", url)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No tasks found") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestTaskCmd_Errors(t *testing.T) {
	url := startAPI(t)
	dbPath := filepath.Join(t.TempDir(), "unused.db")

	_, err := runCLI(t, dbPath, "task", "show", "42", "--server", url)
	if code := exitCode(err); code != ExitNotFound {
		t.Errorf("expected exit code %d, got %d (%v)", ExitNotFound, code, err)
	}

	_, err = runCLI(t, dbPath, "task", "show", "abc", "--server", url)
	if code := exitCode(err); code != ExitInvalidInput {
		t.Errorf("expected exit code %d, got %d", ExitInvalidInput, code)
	}

	_, err = runCLI(t, dbPath, "task", "create", strings.Repeat("x", 300), "--server", url)
	if code := exitCode(err); code != ExitInvalidInput {
		t.Errorf("expected exit code %d, got %d", ExitInvalidInput, code)
	}

	_, err = runCLI(t, dbPath, "task", "create", "Orphan", "--user", "9", "--server", url)
	if code := exitCode(err); code != ExitInvalidInput {
		t.Errorf("expected exit code %d for unknown assignee, got %d", ExitInvalidInput, code)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title", 8, "a lon..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
