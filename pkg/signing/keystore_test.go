package signing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/signcfg/internal/errors"
)

func TestInspectKeystore_NoStoreFile(t *testing.T) {
	_, err := InspectKeystore(&Credential{})
	assert.ErrorIs(t, err, errors.ErrMissingKey)

	_, err = InspectKeystore(nil)
	assert.ErrorIs(t, err, errors.ErrMissingKey)
}

func TestInspectKeystore_FileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.jks")
	_, err := InspectKeystore(&Credential{StoreFile: &path})
	assert.ErrorIs(t, err, errors.ErrStoreFileNotFound)
}

func TestInspectKeystore_NotPKCS12(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.jks")
	require.NoError(t, os.WriteFile(path, []byte("definitely not asn.1"), 0600))
	pw := "secret"

	_, err := InspectKeystore(&Credential{StoreFile: &path, StorePassword: &pw})
	require.Error(t, err)

	se := errors.AsSignError(err)
	assert.Equal(t, errors.CodeKeystoreRead, se.Code)
	assert.Equal(t, path, se.Context["path"])
	assert.NotErrorIs(t, err, errors.ErrKeystorePassword)
}

// testdata/upload-legacy.p12 uses 3DES bags with a SHA-1 MAC, the encoding
// of keytool before JDK 12. testdata/upload-aes.p12 uses PBES2/AES-256 with a
// SHA-256 MAC. Both hold one certificate and one RSA key, password "changeit".
func keystoreCredential(t *testing.T, name, password string) *Credential {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return &Credential{StoreFile: &path, StorePassword: &password, StoreFileExists: true}
}

func TestInspectKeystore_Legacy(t *testing.T) {
	cred := keystoreCredential(t, "upload-legacy.p12", "changeit")

	report, err := InspectKeystore(cred)
	require.NoError(t, err)
	assert.Equal(t, *cred.StoreFile, report.Path)
	assert.Equal(t, 1, report.Certificates)
	assert.Equal(t, 1, report.PrivateKeys)
	assert.Positive(t, report.Size)
}

func TestInspectKeystore_WrongPassword(t *testing.T) {
	_, err := InspectKeystore(keystoreCredential(t, "upload-legacy.p12", "not-it"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrKeystorePassword)
	assert.NotErrorIs(t, err, errors.ErrKeystoreUnsupported)
}

func TestInspectKeystore_AESUnsupported(t *testing.T) {
	_, err := InspectKeystore(keystoreCredential(t, "upload-aes.p12", "changeit"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrKeystoreUnsupported)
	assert.Equal(t, errors.CodeKeystoreUnsupported, errors.AsSignError(err).Code)
}
