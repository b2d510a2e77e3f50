package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testLockfile = `{
  "name": "proj",
  "lockfileVersion": 3,
  "packages": {
    "": {
      "dependencies": {"a": "^1.0.0"}
    },
    "node_modules/a": {
      "version": "1.0.0",
      "resolved": "https://registry.example/a-1.0.0.tgz",
      "integrity": "sha512-aaa"
    }
  }
}`

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		setup        func(tmpDir string)
		args         []string
		expectedExit int
	}{
		{
			name: "Success with valid lockfile",
			setup: func(tmpDir string) {
				err := os.WriteFile(tmpDir+"/package-lock.json", []byte(testLockfile), 0o600)
				if err != nil {
					t.Fatalf("failed to write lockfile: %v", err)
				}
			},
			args:         []string{"plank", "plan"},
			expectedExit: 0,
		},
		{
			name:         "Error with missing lockfile",
			setup:        func(string) {},
			args:         []string{"plank", "plan"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tt.setup(tmpDir)

			// Change to tmpDir for relative path resolution
			originalWd, _ := os.Getwd()
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			os.Args = tt.args

			exitCode := run()
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}
