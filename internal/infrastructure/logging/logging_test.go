package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestRotatingWriterRotatesBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "walletdash.log")
	writer, err := NewRotatingWriter(path, 1, 2)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer writer.Close()
	writer.maxSize = 10

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n"} {
		if _, err := writer.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if !strings.HasPrefix(string(current), "cccc") {
		t.Fatalf("unexpected current content %q", current)
	}
	first, err := os.ReadFile(backupPath(path, 1))
	if err != nil || !strings.HasPrefix(string(first), "bbbb") {
		t.Fatalf("unexpected backup 1 %q err=%v", first, err)
	}
	second, err := os.ReadFile(backupPath(path, 2))
	if err != nil || !strings.HasPrefix(string(second), "aaaa") {
		t.Fatalf("unexpected backup 2 %q err=%v", second, err)
	}
}

func TestRotateWithoutBackupsTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walletdash.log")
	writer, err := NewRotatingWriter(path, 1, 0)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer writer.Close()
	if _, err := writer.Write([]byte("old line\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Rotate(); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, err := os.Stat(backupPath(path, 1)); !os.IsNotExist(err) {
		t.Fatalf("expected no backup file, err=%v", err)
	}
	content, _ := os.ReadFile(path)
	if len(content) != 0 {
		t.Fatalf("expected empty file after rotate, got %q", content)
	}
}

func TestInitJSONWithService(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	if _, err := Init(Config{Level: "debug", Format: "json", Service: "walletdash", Console: &buf}); err != nil {
		t.Fatalf("init: %v", err)
	}
	slog.Debug("hello", "k", "v")
	out := buf.String()
	if !strings.Contains(out, `"service":"walletdash"`) || !strings.Contains(out, `"msg":"hello"`) {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := parseLevel(raw); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestRotateOnSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walletdash.log")
	writer, err := NewRotatingWriter(path, 1, 1)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer writer.Close()
	if _, err := writer.Write([]byte("before hup\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		writer.RotateOn(ctx, signals)
		close(done)
	}()
	signals <- syscall.SIGHUP

	deadline := time.Now().Add(2 * time.Second)
	for {
		data, err := os.ReadFile(path + ".1")
		if err == nil && string(data) == "before hup\n" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("backup not written after signal: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if _, err := writer.Write([]byte("after hup\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "after hup\n" {
		t.Fatalf("unexpected current file %q", data)
	}
}
