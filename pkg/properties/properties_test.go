package properties

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsOrderAndValues(t *testing.T) {
	src, err := Parse([]byte(`# release signing
storePassword=s3cret
keyPassword = k3y
keyAlias:upload
storeFile=../upload-keystore.jks
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"storePassword", "keyPassword", "keyAlias", "storeFile"}, src.Keys())
	v, ok := src.Get("keyPassword")
	assert.True(t, ok)
	assert.Equal(t, "k3y", v)
	v, _ = src.Get("keyAlias")
	assert.Equal(t, "upload", v)
}

func TestParse_DoesNotExpandPlaceholders(t *testing.T) {
	src, err := Parse([]byte("storePassword=pa${ss}word\n"))
	require.NoError(t, err)

	v, _ := src.Get("storePassword")
	assert.Equal(t, "pa${ss}word", v)
}

func TestLookup(t *testing.T) {
	src, err := Parse([]byte("keyAlias=\n"))
	require.NoError(t, err)

	alias := src.Lookup("keyAlias")
	require.NotNil(t, alias)
	assert.Equal(t, "", *alias)
	assert.Nil(t, src.Lookup("storeFile"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.properties")
	require.NoError(t, os.WriteFile(path, []byte("storeFile=upload.jks\n"), 0600))

	src, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path())
	assert.Equal(t, 1, src.Len())

	// returned keys are a copy
	keys := src.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"storeFile"}, src.Keys())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.properties"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestNilSource(t *testing.T) {
	var src *Source
	_, ok := src.Get("storeFile")
	assert.False(t, ok)
	assert.Nil(t, src.Lookup("storeFile"))
	assert.Equal(t, 0, src.Len())
	assert.Empty(t, src.Keys())
	assert.Equal(t, "", src.Path())
}

func TestParse_ReadsLatin1LikeJava(t *testing.T) {
	src, err := Parse([]byte("storePassword=p\xe4ss\nkeyPassword=caf\\u00e9\n"))
	require.NoError(t, err)

	v, _ := src.Get("storePassword")
	assert.Equal(t, "päss", v)
	v, _ = src.Get("keyPassword")
	assert.Equal(t, "café", v)
}
