package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/signcfg/pkg/utils"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signcfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateConfig_Missing(t *testing.T) {
	cm := NewConfigManager(utils.NopLogger{})
	result := cm.ValidateConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Configuration file does not exist")
}

func TestValidateConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
project:
  root: "."
signing:
  store_type: pkcs12
  strict: true
`)
	result := NewConfigManager(nil).ValidateConfig(path)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 2, result.Details["config_keys"])
}

func TestValidateConfig_Problems(t *testing.T) {
	path := writeConfig(t, `
signing:
  store_type: bks
  strict: "yes"
  color: blue
release: true
extras: {}
`)
	result := NewConfigManager(nil).ValidateConfig(path)

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "Unsupported store_type: bks")
	assert.Contains(t, result.Errors, "signing.strict must be true or false")
	assert.Contains(t, result.Errors, "release section must be a map")
	assert.Contains(t, result.Warnings, "Unknown section: extras")
	assert.Contains(t, result.Warnings, "Unknown setting: signing.color")
}

func TestValidateConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "signing: [oops")
	result := NewConfigManager(nil).ValidateConfig(path)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Invalid YAML syntax")
}
