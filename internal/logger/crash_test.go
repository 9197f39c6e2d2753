package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCrashLog_CapturesContext(t *testing.T) {
	Configure(t.TempDir())
	SetVersion("1.0.0-test")
	SetCommand("streakwing register")
	SetLastInput("  --json  ")
	SetTrigger("schedule")

	report := newCrashLog("boom")
	if report.Version != "1.0.0-test" {
		t.Errorf("Expected version '1.0.0-test', got '%s'", report.Version)
	}
	if report.Command != "streakwing register" {
		t.Errorf("Expected command 'streakwing register', got '%s'", report.Command)
	}
	if report.Args != "--json" {
		t.Errorf("Expected trimmed args '--json', got '%s'", report.Args)
	}
	if report.Trigger != "schedule" {
		t.Errorf("Expected trigger 'schedule', got '%s'", report.Trigger)
	}
	if report.PanicValue != "boom" || report.StackTrace == "" {
		t.Errorf("Expected panic value and stack, got %q / %d bytes", report.PanicValue, len(report.StackTrace))
	}
}

func TestCrashLog_TruncatesLongInput(t *testing.T) {
	SetLastInput(strings.Repeat("a", 3000))
	report := newCrashLog("x")
	if len(report.Args) > maxInputLen+20 {
		t.Errorf("Expected input to be truncated, got length %d", len(report.Args))
	}
	if !strings.HasSuffix(report.Args, "[truncated]") {
		t.Error("Expected truncated input to end with '[truncated]'")
	}
}

func TestCrashLog_WriteAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), CrashLogDir)
	Configure(dir)
	SetCommand("streakwing serve")
	SetTrigger("http")

	path, err := writeCrashLog(newCrashLog("test panic"))
	if err != nil {
		t.Fatalf("writeCrashLog failed: %v", err)
	}

	logs, err := ListCrashLogs()
	if err != nil {
		t.Fatalf("ListCrashLogs failed: %v", err)
	}
	if len(logs) != 1 || logs[0] != path {
		t.Fatalf("Expected [%s], got %v", path, logs)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read crash log: %v", err)
	}
	var got CrashLog
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("crash log is not JSON: %v", err)
	}
	if got.PanicValue != "test panic" || got.Trigger != "http" || got.Command != "streakwing serve" {
		t.Errorf("unexpected crash log: %+v", got)
	}
}

func TestCrashLog_PruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxCrashLogs+3; i++ {
		name := fmt.Sprintf("crash_%s.json", base.Add(time.Duration(i)*time.Minute).Format("20060102_150405"))
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := pruneCrashLogs(dir, MaxCrashLogs-1); err != nil {
		t.Fatalf("pruneCrashLogs failed: %v", err)
	}

	logs, _ := listCrashLogs(dir)
	if len(logs) != MaxCrashLogs-1 {
		t.Errorf("Expected %d logs after pruning, got %d", MaxCrashLogs-1, len(logs))
	}
	if _, err := os.Stat(filepath.Join(dir, "crash_20240101_000000.json")); !os.IsNotExist(err) {
		t.Error("Expected oldest crash log to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("Expected unrelated files to be left alone")
	}
}

func TestSetup_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, false)
	l.Debug("hidden")
	l.Info("shown", "streak_id", "abc")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered without verbose")
	}
	if !strings.Contains(out, "streak_id=abc") {
		t.Errorf("expected key/value attributes, got %q", out)
	}

	buf.Reset()
	Setup(&buf, true).Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("debug record should be written when verbose")
	}
}
