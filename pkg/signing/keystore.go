package signing

import (
	stderrors "errors"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/huanfeng/signcfg/internal/errors"
)

// KeystoreReport summarizes a decoded PKCS#12 keystore.
type KeystoreReport struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Certificates int    `json:"certificates"`
	PrivateKeys  int    `json:"private_keys"`
}

// InspectKeystore opens the credential's store file with its store password.
// Keystores written with PBES2/AES, the default of recent keytool versions,
// cannot be decoded and are reported as ErrKeystoreUnsupported.
func InspectKeystore(cred *Credential) (*KeystoreReport, error) {
	if cred == nil || cred.StoreFile == nil {
		return nil, errors.NewMissingKeyError(KeyStoreFile, DefaultPropertiesFile)
	}
	path := *cred.StoreFile

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewStoreFileNotFoundError(path)
		}
		return nil, errors.WrapError(err, errors.ErrorTypeFileSystem, errors.CodeKeystoreRead,
			"failed to read keystore").WithContext("path", path)
	}

	password := ""
	if cred.StorePassword != nil {
		password = *cred.StorePassword
	}

	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		var notImplemented pkcs12.NotImplementedError
		switch {
		case stderrors.Is(err, pkcs12.ErrIncorrectPassword):
			return nil, errors.WrapError(err, errors.ErrorTypeKeystore, errors.CodeKeystorePassword,
				"keystore password is incorrect").
				WithContext("path", path).
				WithSuggestion("Check storePassword in the properties file")
		case stderrors.As(err, &notImplemented):
			return nil, errors.WrapError(err, errors.ErrorTypeKeystore, errors.CodeKeystoreUnsupported,
				"keystore uses an encoding that cannot be inspected").
				WithContext("path", path).
				WithSuggestion("The packaging tool may still be able to use it; verify with keytool -list")
		default:
			return nil, errors.WrapError(err, errors.ErrorTypeKeystore, errors.CodeKeystoreRead,
				"keystore is not a readable PKCS#12 file").
				WithContext("path", path)
		}
	}

	report := &KeystoreReport{Path: path, Size: int64(len(data))}
	for _, b := range blocks {
		switch b.Type {
		case "CERTIFICATE":
			report.Certificates++
		case "PRIVATE KEY":
			report.PrivateKeys++
		}
	}
	return report, nil
}
