package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskdesk/taskdesk/internal/schema"
	"github.com/taskdesk/taskdesk/internal/server"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

func newServer(t *testing.T, addr string) (*server.Server, *store.DB) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "taskdesk.db"))
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

	srv := server.New(server.Options{
		Addr:   addr,
		DB:     db,
		Repos:  repos,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return srv, db
}

func waitForAddr(t *testing.T, srv *server.Server) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if addr := srv.Addr(); addr != "" {
			return addr
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server address not available")
	return ""
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv, _ := newServer(t, "localhost:0")

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()
	waitForAddr(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("shutdown error: %v", err)
	}

	// Check if Start returned (it should after Shutdown)
	select {
	case err := <-errChan:
		// http.ErrServerClosed is expected
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("unexpected error from Start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("server did not stop after shutdown")
	}
}

func TestServer_ServesAndClosesDatabase(t *testing.T) {
	srv, db := newServer(t, "localhost:0")

	go func() {
		srv.Start()
	}()
	addr := waitForAddr(t, srv)

	// Make a request to verify server is running
	resp, err := http.Get("http://" + addr + "/v1/health")
	if err != nil {
		t.Fatalf("failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if health["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", health["status"])
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("shutdown error: %v", err)
	}
	if err := db.Ping(context.Background()); err == nil {
		t.Error("expected database to be closed after shutdown")
	}

	// A second shutdown is a no-op.
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("second shutdown error: %v", err)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv, _ := newServer(t, "localhost:0")

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run(ctx)
	}()
	waitForAddr(t, srv)

	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("unexpected error from Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("server did not stop after cancel")
	}
}

func TestServer_AddrBeforeStart(t *testing.T) {
	srv, _ := newServer(t, "")
	if addr := srv.Addr(); addr != "" {
		t.Errorf("expected empty address before start, got %q", addr)
	}
}
