package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// GetProjectRootPath walks up from the working directory until it finds
// the directory holding go.mod
func GetProjectRootPath() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	p := wd
	for iterations := 0; iterations <= 10; iterations++ {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	panic(fmt.Sprintf("Could not find project root path from %s", wd))
}

// ReadFixture reads a file from internal/testData
func ReadFixture(projectRoot string, name string) ([]byte, error) {
	filePath := filepath.Join(projectRoot, "internal", "testData", name)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	return file, nil
}

// RequireLiveToken returns the API token for tests that talk to the real
// BlockCypher test chain, skipping the test when it is not set or -short
// is given
func RequireLiveToken(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping live API test in short mode")
	}
	token := os.Getenv("BLOCKCYPHER_TOKEN")
	if token == "" {
		t.Skip("Skipping live API test, BLOCKCYPHER_TOKEN is not set")
	}
	return token
}
