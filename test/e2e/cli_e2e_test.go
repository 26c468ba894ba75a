package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E verifies the built binary end to end.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	tmpDir := t.TempDir()
	binName := "parsum"
	if runtime.GOOS == "windows" {
		binName = "parsum.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/parsum")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build parsum: %v", err)
	}

	badData := filepath.Join(tmpDir, "bad.txt")
	if err := os.WriteFile(badData, []byte("1\n2\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	smallData := filepath.Join(tmpDir, "small.txt")
	if err := os.WriteFile(smallData, []byte("5\n7\n3\n10\n2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Generated Dataset",
			args:     []string{"--data", filepath.Join(tmpDir, "gen.txt"), "--size", "20000", "--seed", "3"},
			wantOut:  "efficiency",
			wantCode: 0,
		},
		{
			name:     "Known Dataset",
			args:     []string{"--data", smallData, "--workers", "1,2,5,6"},
			wantOut:  "27",
			wantCode: 0,
		},
		{
			name:     "Quiet Mode",
			args:     []string{"--data", smallData, "-q"},
			wantOut:  "speedup",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "parsum",
			wantCode: 0,
		},
		{
			name:     "Zero Workers",
			args:     []string{"--data", smallData, "--workers", "2,0"},
			wantOut:  "workers=0",
			wantCode: 4,
		},
		{
			name:     "Malformed Dataset",
			args:     []string{"--data", badData},
			wantOut:  "bad.txt:3",
			wantCode: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			if tt.wantCode == 0 {
				if err != nil {
					t.Errorf("Command failed unexpectedly: %v\nOutput: %s", err, outStr)
				}
			} else {
				var exitErr *exec.ExitError
				if !errors.As(err, &exitErr) {
					t.Fatalf("Expected exit code %d, got %v\nOutput: %s", tt.wantCode, err, outStr)
				}
				if exitErr.ExitCode() != tt.wantCode {
					t.Errorf("Exit code = %d, want %d\nOutput: %s", exitErr.ExitCode(), tt.wantCode, outStr)
				}
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
