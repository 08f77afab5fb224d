package archivekit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func BenchmarkChecksum(b *testing.B) {
	content := []byte(strings.Repeat("Hello, World! ", 75000)) // ~1MB of content

	for _, alg := range SupportedAlgorithms() {
		b.Run(string(alg), func(b *testing.B) {
			b.SetBytes(int64(len(content)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := CalculateChecksum(bytes.NewReader(content), alg); err != nil {
					b.Fatalf("CalculateChecksum failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkValidate(b *testing.B) {
	root := b.TempDir()
	files := map[string]string{
		"a.txt": strings.Repeat("alpha ", 2000),
		"b.txt": strings.Repeat("bravo ", 2000),
	}
	zipData := zipBytes(b, files)
	tarData := tarBytes(b, files)
	for i := 0; i < 32; i++ {
		dir := filepath.Join(root, fmt.Sprintf("d%02d", i%4))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%02d.zip", i)), zipData, 0o644); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%02d.tar", i)), tarData, 0o644); err != nil {
			b.Fatal(err)
		}
	}

	configs := map[string][]Option{
		"workers_1":       {WithWorkers(1)},
		"workers_8":       {WithWorkers(8)},
		"with_checksum":   {WithWorkers(8), WithChecksum("0", "xxhash")},
		"with_log_writer": nil,
	}

	for name, opts := range configs {
		b.Run(name, func(b *testing.B) {
			if name == "with_log_writer" {
				w, err := NewLogWriter(b.TempDir(), DefaultMaxLogs)
				if err != nil {
					b.Fatalf("NewLogWriter failed: %v", err)
				}
				opts = []Option{WithWorkers(8), WithLogWriter(w)}
			}

			v, err := New(opts...)
			if err != nil {
				b.Fatalf("New failed: %v", err)
			}

			ctx := context.Background()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				records, err := v.Validate(ctx, root)
				if err != nil {
					b.Fatalf("Validate failed: %v", err)
				}
				if len(records) != 64 {
					b.Fatalf("got %d records, want 64", len(records))
				}
			}
		})
	}
}

func BenchmarkConfigCreation(b *testing.B) {
	b.Setenv("BEAVER_ARCHIVEKIT_LOG_DIRECTORY", "/tmp/archivekit")
	b.Setenv("BEAVER_ARCHIVEKIT_MAX_LOGS", "10")
	b.Setenv("BEAVER_ARCHIVEKIT_INCLUDE", "*.zip,*.tar")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg, err := GetConfig()
		if err != nil {
			b.Fatalf("GetConfig failed: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			b.Fatalf("Validate failed: %v", err)
		}
	}
}
