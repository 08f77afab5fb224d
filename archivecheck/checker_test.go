package archivecheck

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"
)

type panicChecker struct{}

func (panicChecker) Name() string         { return "boom" }
func (panicChecker) Extensions() []string { return []string{".boom"} }
func (panicChecker) Check(context.Context, string) Outcome {
	panic("reader exploded")
}

func TestRun_RecoversPanic(t *testing.T) {
	out := Run(context.Background(), panicChecker{}, "x.boom")
	if out.Valid {
		t.Fatal("expected invalid outcome")
	}
	if out.Kind != KindUnexpected {
		t.Errorf("Kind = %q, want %q", out.Kind, KindUnexpected)
	}
	if !strings.Contains(out.Reason, "reader exploded") {
		t.Errorf("Reason = %q, want the panic value", out.Reason)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Run(ctx, panicChecker{}, "x.boom")
	if out.Valid || out.Kind != KindUnexpected {
		t.Errorf("got %s, want unexpected failure", out.Summary())
	}
}

func TestRun_SetsDuration(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.tar", createTar(t, sampleEntries))
	out := Run(context.Background(), DefaultTarChecker(), path)
	if out.Duration <= 0 {
		t.Errorf("Duration = %v, want > 0", out.Duration)
	}
}

func TestRun_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := writeFile(t, t.TempDir(), "locked.tar", createTar(t, sampleEntries))
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(path, 0o644) })

	out := Run(context.Background(), DefaultTarChecker(), path)
	if out.Valid || out.Kind != KindPermissionDenied {
		t.Errorf("got %s, want permission_denied", out.Summary())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, KindNone},
		{"not exist", fs.ErrNotExist, KindNotFound},
		{"wrapped not exist", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, KindNotFound},
		{"permission", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, KindPermissionDenied},
		{"unexpected eof", io.ErrUnexpectedEOF, KindTruncated},
		{"path error", &fs.PathError{Op: "read", Path: "x", Err: errors.New("device gone")}, KindIOError},
		{"syscall error", os.NewSyscallError("pread", errors.New("eio")), KindIOError},
		{"other", errors.New("weird"), KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFailureKind_Retryable(t *testing.T) {
	kinds := []FailureKind{KindNotFound, KindBadFormat, KindTruncated, KindIOError, KindPermissionDenied, KindUnexpected}
	for _, k := range kinds {
		if got, want := k.Retryable(), k == KindIOError; got != want {
			t.Errorf("%s.Retryable() = %v, want %v", k, got, want)
		}
	}
}

func TestCheckError(t *testing.T) {
	base := io.ErrUnexpectedEOF
	err := NewCheckError(KindTruncated, "short read", base)

	if err.Error() != "truncated: short read: unexpected EOF" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("CheckError should unwrap to the underlying error")
	}
	if !IsCheckError(err) {
		t.Error("IsCheckError() = false")
	}
	if !IsKind(err, KindTruncated) {
		t.Error("IsKind(truncated) = false")
	}
	if IsCheckError(errors.New("plain")) {
		t.Error("IsCheckError(plain) = true")
	}
	if KindOf(errors.New("plain")) != KindUnexpected {
		t.Error("KindOf(plain) should classify")
	}
}

func TestFailed(t *testing.T) {
	out := Failed(NewCheckError(KindBadFormat, "invalid tar header", errors.New("bad checksum")))
	if out.Valid || out.Kind != KindBadFormat {
		t.Fatalf("got %+v", out)
	}
	if out.Reason != "invalid tar header: bad checksum" {
		t.Errorf("Reason = %q", out.Reason)
	}
	if !IsKind(out.Err(), KindBadFormat) {
		t.Error("Err() should carry the kind")
	}

	if Passed(1, 2).Err() != nil {
		t.Error("Passed().Err() should be nil")
	}
}

func TestHasSignature(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		data   []byte
		format string
		want   bool
	}{
		{"zip", []byte("PK\x03\x04rest"), FormatZip, true},
		{"empty zip", []byte("PK\x05\x06"), FormatZip, true},
		{"zip as tar", []byte("PK\x03\x04rest"), FormatTar, false},
		{"7z", []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C, 0, 4}, Format7z, true},
		{"short 7z", []byte{'7', 'z'}, Format7z, false},
		{"text", []byte("This is a test file."), FormatZip, false},
		{"empty", nil, FormatZip, false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "sig"+string(rune('a'+i)), tt.data)
			if got := HasSignature(path, tt.format); got != tt.want {
				t.Errorf("HasSignature(%s) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}

	tarPath := writeFile(t, dir, "a.tar", createTar(t, sampleEntries))
	if !HasSignature(tarPath, FormatTar) {
		t.Error("HasSignature(tar) = false for a ustar archive")
	}
	if HasSignature(dir+"/missing", FormatZip) {
		t.Error("HasSignature(missing) = true")
	}
}
