// Package testutil holds helpers shared by otpcode's tests.
package testutil

import (
	"fmt"
	"os"
	"os/exec"
)

// MockExecCommand builds an exec.Command replacement that re-runs the test
// binary as a helper process printing output and exiting non-zero when err
// is set. The calling package must define a TestHelperProcess test that
// calls TestHelperProcess.
func MockExecCommand(output string, err error) func(string, ...string) *exec.Cmd {
	return func(command string, args ...string) *exec.Cmd {
		cs := []string{"-test.run=TestHelperProcess", "--", command}
		cs = append(cs, args...)
		cmd := exec.Command(os.Args[0], cs...)

		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			"MOCK_OUTPUT=" + output,
		}

		if err != nil {
			cmd.Env = append(cmd.Env, "MOCK_ERROR=1")
		}

		return cmd
	}
}

// TestHelperProcess is the body of the helper process. It is a no-op unless
// GO_WANT_HELPER_PROCESS is set.
//
//	func TestHelperProcess(t *testing.T) {
//		testutil.TestHelperProcess()
//	}
func TestHelperProcess() {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Print(os.Getenv("MOCK_OUTPUT"))
	if os.Getenv("MOCK_ERROR") == "1" {
		os.Exit(1)
	}
	os.Exit(0)
}
