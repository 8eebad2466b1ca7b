package signing

import (
	"fmt"
	"strings"

	"github.com/huanfeng/signcfg/pkg/models"
)

// Keys read from the properties file.
const (
	KeyStoreFile     = "storeFile"
	KeyStorePassword = "storePassword"
	KeyKeyAlias      = "keyAlias"
	KeyKeyPassword   = "keyPassword"
)

// DefaultStoreType is the keystore format the credential declares.
const DefaultStoreType = "pkcs12"

// Credential is the signing credential derived from the properties file.
// A nil field means the key was absent.
type Credential struct {
	StoreFile     *string `json:"store_file"`
	StorePassword *string `json:"store_password"`
	KeyAlias      *string `json:"key_alias"`
	KeyPassword   *string `json:"key_password"`
	StoreType     string  `json:"store_type"`

	// StoreFileExists is the result of the existence check on StoreFile.
	StoreFileExists bool `json:"store_file_exists"`
}

// Missing lists the property keys whose fields are nil, in declaration order.
func (c *Credential) Missing() []string {
	if c == nil {
		return []string{KeyStoreFile, KeyStorePassword, KeyKeyAlias, KeyKeyPassword}
	}
	var missing []string
	if c.StoreFile == nil {
		missing = append(missing, KeyStoreFile)
	}
	if c.StorePassword == nil {
		missing = append(missing, KeyStorePassword)
	}
	if c.KeyAlias == nil {
		missing = append(missing, KeyKeyAlias)
	}
	if c.KeyPassword == nil {
		missing = append(missing, KeyKeyPassword)
	}
	return missing
}

// Valid reports whether every field is set and the store file exists.
func (c *Credential) Valid() bool {
	return c != nil && c.StoreFileExists && len(c.Missing()) == 0
}

// SigningConfig converts the credential into the record injected into the
// build configuration.
func (c *Credential) SigningConfig(name string) *models.SigningConfig {
	sc := &models.SigningConfig{Name: name, StoreType: DefaultStoreType}
	if c == nil {
		return sc
	}
	sc.StoreFile = c.StoreFile
	sc.StorePassword = c.StorePassword
	sc.KeyAlias = c.KeyAlias
	sc.KeyPassword = c.KeyPassword
	if c.StoreType != "" {
		sc.StoreType = c.StoreType
	}
	return sc
}

// String never includes the passwords.
func (c *Credential) String() string {
	if c == nil {
		return "<nil credential>"
	}
	field := func(v *string, secret bool) string {
		switch {
		case v == nil:
			return "<null>"
		case secret:
			return models.RedactedValue
		default:
			return *v
		}
	}
	parts := []string{
		fmt.Sprintf("storeFile=%s", field(c.StoreFile, false)),
		fmt.Sprintf("storePassword=%s", field(c.StorePassword, true)),
		fmt.Sprintf("keyAlias=%s", field(c.KeyAlias, false)),
		fmt.Sprintf("keyPassword=%s", field(c.KeyPassword, true)),
		fmt.Sprintf("storeType=%s", c.StoreType),
	}
	return strings.Join(parts, " ")
}

// Redacted returns a copy with the passwords masked.
func (c *Credential) Redacted() *Credential {
	if c == nil {
		return nil
	}
	sc := c.SigningConfig("").Redacted()
	out := *c
	out.StoreFile = sc.StoreFile
	out.StorePassword = sc.StorePassword
	out.KeyAlias = sc.KeyAlias
	out.KeyPassword = sc.KeyPassword
	return &out
}
