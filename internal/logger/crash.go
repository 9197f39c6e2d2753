// Package logger provides slog setup plus crash reports for streakwing.
package logger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// CrashLogDir is the default crash report directory under the project root.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is how many crash reports are kept.
	MaxCrashLogs = 10

	maxInputLen = 500
)

// CrashLog is one crash report as written to disk.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	Trigger    string    `json:"trigger,omitempty"`
	Args       string    `json:"args,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	Platform   string    `json:"platform"`
}

var crash = struct {
	sync.RWMutex
	dir     string
	version string
	command string
	trigger string
	args    string
}{dir: filepath.Join(".streakwing", CrashLogDir)}

// Configure sets the directory crash reports are written to.
func Configure(dir string) {
	crash.Lock()
	defer crash.Unlock()
	if dir != "" {
		crash.dir = dir
	}
}

// SetVersion records the binary version.
func SetVersion(v string) {
	crash.Lock()
	defer crash.Unlock()
	crash.version = v
}

// SetCommand records the command path being executed.
func SetCommand(cmd string) {
	crash.Lock()
	defer crash.Unlock()
	crash.command = cmd
}

// SetLastInput records the command arguments, truncated.
func SetLastInput(input string) {
	input = strings.TrimSpace(input)
	if len(input) > maxInputLen {
		input = input[:maxInputLen] + "... [truncated]"
	}
	crash.Lock()
	defer crash.Unlock()
	crash.args = input
}

// SetTrigger records which surface started the current run (cli, schedule, http, mcp).
func SetTrigger(trigger string) {
	crash.Lock()
	defer crash.Unlock()
	crash.trigger = trigger
}

// HandlePanic recovers a panic, writes a crash report and exits with status 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	report := newCrashLog(r)
	path, err := writeCrashLog(report)
	if err != nil {
		slog.Error("streakwing crashed; crash report not saved",
			"panic", report.PanicValue, "error", err, "stack", report.StackTrace)
	} else {
		slog.Error("streakwing crashed; streak data was not modified",
			"panic", report.PanicValue, "crash_log", path)
	}
	os.Exit(1)
}

func newCrashLog(panicValue any) CrashLog {
	crash.RLock()
	defer crash.RUnlock()
	return CrashLog{
		Timestamp:  time.Now().UTC(),
		Version:    crash.version,
		Command:    crash.command,
		Trigger:    crash.trigger,
		Args:       crash.args,
		PanicValue: fmt.Sprint(panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func crashDir() string {
	crash.RLock()
	defer crash.RUnlock()
	return crash.dir
}

// writeCrashLog stores report as JSON and prunes old reports first.
func writeCrashLog(report CrashLog) (string, error) {
	dir := crashDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}
	if err := pruneCrashLogs(dir, MaxCrashLogs-1); err != nil {
		slog.Warn("failed to prune crash logs", "dir", dir, "error", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash log: %w", err)
	}
	path := filepath.Join(dir, "crash_"+report.Timestamp.Format("20060102_150405")+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}

// pruneCrashLogs removes the oldest reports until at most keep remain.
// Names embed the timestamp, so lexical order is age order.
func pruneCrashLogs(dir string, keep int) error {
	logs, err := listCrashLogs(dir)
	if err != nil || len(logs) <= keep {
		return err
	}
	for _, path := range logs[:len(logs)-keep] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func listCrashLogs(dir string) ([]string, error) {
	logs, err := filepath.Glob(filepath.Join(dir, "crash_*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(logs)
	return logs, nil
}

// ListCrashLogs returns the stored crash reports, oldest first.
func ListCrashLogs() ([]string, error) {
	return listCrashLogs(crashDir())
}
