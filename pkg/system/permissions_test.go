//go:build !windows

package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPermissions(t *testing.T) {
	dir := t.TempDir()
	private := filepath.Join(dir, "key.properties")
	shared := filepath.Join(dir, "upload-keystore.jks")
	require.NoError(t, os.WriteFile(private, []byte("keyAlias=upload\n"), 0600))
	require.NoError(t, os.WriteFile(shared, []byte("keystore"), 0600))
	require.NoError(t, os.Chmod(shared, 0644))

	pc := NewPermissionChecker(nil)
	result := pc.CheckPermissions([]PermissionCheck{
		{Path: private, RequireRead: true, Secret: true},
		{Path: shared, RequireRead: true, Secret: true},
		{Path: filepath.Join(dir, "missing"), RequireRead: true},
	})

	assert.False(t, result.Passed())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Path does not exist")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], shared)
}

func TestCheckPermissions_AllGood(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.properties")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	result := NewPermissionChecker(nil).CheckPermissions([]PermissionCheck{{Path: path, RequireRead: true, Secret: true}})
	assert.True(t, result.Passed())
	assert.Empty(t, result.Warnings)
}
