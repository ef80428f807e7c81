package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPrintSuccess(t *testing.T) {
	var buf bytes.Buffer
	printSuccess(&buf, "done", false)
	if buf.String() != "done\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	printSuccess(&buf, "done", true)
	var resp map[string]string
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if resp["message"] != "done" {
		t.Errorf("unexpected message %q", resp["message"])
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"), false)
	if buf.String() != "Error: boom\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintStatement(t *testing.T) {
	var buf bytes.Buffer
	printStatement(&buf, "SELECT 1 WHERE a = ?", []any{int64(7)}, false)

	out := buf.String()
	if !strings.HasPrefix(out, "SELECT 1 WHERE a = ?\n") {
		t.Errorf("expected statement first, got %q", out)
	}
	if !strings.Contains(out, "1  7") {
		t.Errorf("expected parameter row, got %q", out)
	}

	buf.Reset()
	printStatement(&buf, "", nil, false)
	if !strings.Contains(buf.String(), "No task can match") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	printStatement(&buf, "", nil, true)
	if !strings.Contains(buf.String(), `"params": []`) {
		t.Errorf("expected empty params array, got %q", buf.String())
	}
}
