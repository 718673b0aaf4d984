package tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GetProjectRootPath(t *testing.T) {
	root := GetProjectRootPath()
	_, err := os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
}

func Test_ReadFixture(t *testing.T) {
	root := GetProjectRootPath()

	data, err := ReadFixture(root, "tx-skeleton.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tosign"`)

	_, err = ReadFixture(root, "missing.json")
	assert.Error(t, err)
}
