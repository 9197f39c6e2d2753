package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// fakeTodoist answers Sync API item_add commands and records their contents.
type fakeTodoist struct {
	mu       sync.Mutex
	contents []string
	status   int
}

func newFakeTodoist(t *testing.T) (*fakeTodoist, *httptest.Server) {
	t.Helper()
	f := &fakeTodoist{status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Commands []struct {
				UUID string `json:"uuid"`
				Args struct {
					Content string `json:"content"`
				} `json:"args"`
			} `json:"commands"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Commands) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		status := f.status
		if status == http.StatusOK {
			f.contents = append(f.contents, req.Commands[0].Args.Content)
		}
		n := len(f.contents)
		f.mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		id := req.Commands[0].UUID
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"sync_status":{%q:"ok"},"temp_id_mapping":{%q:"task-%d"}}`, id, id, n)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeTodoist) created() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.contents...)
}

func (f *fakeTodoist) setStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = code
}

// setupCLI writes a config pointing at baseURL and isolates HOME and the
// working directory. It returns the config path.
func setupCLI(t *testing.T, baseURL string, extra string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("TODOIST_TOKEN", "")
	t.Chdir(dir)

	cfg := fmt.Sprintf(`project:
  rootDir: %s
data:
  backend: file
  dir: %s
todoist:
  token: test-token
  baseURL: %s
  retryBaseDelayMs: 0
  maxRetries: 1
registration:
  interCallDelayMs: 0
%s`, filepath.Join(dir, ".streakwing"), filepath.Join(dir, "data"), baseURL, extra)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	prevInteractive := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = prevInteractive })
	return path
}

// runCLI executes the root command with fresh flag and viper state and
// returns what it wrote to stdout.
func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), configPath, args...)
}

// runCLIContext is runCLI for long-running commands stopped through ctx.
func runCLIContext(t *testing.T, ctx context.Context, configPath string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	resetFlags(rootCmd)

	// Logs go to stderr and must not mix with JSON on stdout.
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Value.Type() == "stringSlice" {
			return
		}
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
