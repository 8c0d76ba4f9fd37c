package testutil_test

import (
	"encoding/base32"
	"os"
	"strings"
	"testing"

	"github.com/bashhack/otpcode/internal/testutil"
)

// TestHelperProcess is needed for the testutil.MockExecCommand function
func TestHelperProcess(t *testing.T) {
	testutil.TestHelperProcess()
}

func TestMockExecCommand(t *testing.T) {
	cmd := testutil.MockExecCommand("test output", nil)("echo", "test")

	env := strings.Join(cmd.Env, "\n")
	if !strings.Contains(env, "GO_WANT_HELPER_PROCESS=1") {
		t.Error("GO_WANT_HELPER_PROCESS env var not found")
	}
	if !strings.Contains(env, "MOCK_OUTPUT=test output") {
		t.Error("MOCK_OUTPUT env var not found")
	}
	if strings.Contains(env, "MOCK_ERROR=1") {
		t.Error("MOCK_ERROR set without an error")
	}

	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("Output() unexpected error = %v", err)
	}
	if string(out) != "test output" {
		t.Errorf("Output() = %q, want %q", out, "test output")
	}
}

func TestMockExecCommand_Error(t *testing.T) {
	cmd := testutil.MockExecCommand("", os.ErrNotExist)("ls", "nonexistentdir")

	if !strings.Contains(strings.Join(cmd.Env, "\n"), "MOCK_ERROR=1") {
		t.Error("MOCK_ERROR env var not found")
	}
	if err := cmd.Run(); err == nil {
		t.Error("Run() error = nil, want non-zero exit")
	}
}

func TestRandomSecret(t *testing.T) {
	s, err := testutil.RandomSecret(20)
	if err != nil {
		t.Fatalf("RandomSecret() unexpected error = %v", err)
	}
	if len(s) != 32 {
		t.Errorf("RandomSecret(20) length = %d, want 32", len(s))
	}
	if _, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s); err != nil {
		t.Errorf("RandomSecret() = %q is not base32: %v", s, err)
	}

	if s, _ := testutil.RandomSecret(0); s != "" {
		t.Errorf("RandomSecret(0) = %q, want empty", s)
	}
}
