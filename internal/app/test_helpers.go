package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteRhizfile writes src as the Rhizfile of a fresh temporary directory
// and returns that directory.
func WriteRhizfile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Rhizfile"), []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write Rhizfile: %v", err)
	}
	return dir
}

// SetupAppTest creates an App over the Rhizfile in dir with debug logging.
// Task output and logs are captured separately.
func SetupAppTest(t *testing.T, dir string, cfg *Config) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	stdout, stderr := &SafeBuffer{}, &SafeBuffer{}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Dir = dir
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	testApp, err := NewApp(context.Background(), stdout, stderr, cfg)
	if err != nil {
		t.Fatalf("failed to create app: %v\n%s", err, stderr.String())
	}

	t.Cleanup(func() {
		if os.Getenv("RHIZ_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), stderr.String())
		}
	})

	return testApp, stdout, stderr
}
