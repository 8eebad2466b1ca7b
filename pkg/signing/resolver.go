// Package signing resolves the release signing credential from key.properties.
//
// Resolution is best effort: a missing properties file, a missing key or a
// keystore that does not exist are logged and recorded as diagnostics, and the
// credential is built with nil fields. Only parse failures, secret reference
// failures and strict mode violations stop the flow.
package signing

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/huanfeng/signcfg/internal/errors"
	"github.com/huanfeng/signcfg/pkg/models"
	"github.com/huanfeng/signcfg/pkg/properties"
	"github.com/huanfeng/signcfg/pkg/utils"
)

// DefaultPropertiesFile is looked up relative to the project root.
const DefaultPropertiesFile = "key.properties"

// SecretResolver expands secret references. Literal values are returned as is.
type SecretResolver interface {
	Resolve(ctx context.Context, value string) (string, error)
}

// Options configures a Resolver.
type Options struct {
	ProjectRoot    string
	PropertiesFile string
	// StoreBaseDir is the directory a relative storeFile is joined against.
	// Relative values are taken from ProjectRoot; empty means ProjectRoot.
	StoreBaseDir string
	StoreType    string
	ConfigName   string
	Strict       bool
	Secrets      SecretResolver
}

// OptionsFromConfig maps the application configuration onto resolver options.
// Secrets is left nil; callers decide whether references are expanded.
func OptionsFromConfig(cfg *models.Config) Options {
	return Options{
		ProjectRoot:    cfg.Project.Root,
		PropertiesFile: cfg.Project.PropertiesFile,
		StoreBaseDir:   cfg.Project.StoreBaseDir,
		StoreType:      cfg.Signing.StoreType,
		ConfigName:     cfg.Signing.ConfigName,
		Strict:         cfg.Signing.Strict,
	}
}

// Diagnostic is a non-fatal condition met during resolution.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Result carries everything Resolve learned.
type Result struct {
	PropertiesPath string             `json:"properties_path"`
	StoreFilePath  string             `json:"store_file_path,omitempty"`
	Source         *properties.Source `json:"-"`
	Credential     *Credential        `json:"credential"`
	Diagnostics    []Diagnostic       `json:"diagnostics,omitempty"`
}

func (r *Result) addDiagnostic(err error) {
	se := errors.AsSignError(err)
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Code: se.Code, Message: se.Message, Err: err})
}

// HasDiagnostic reports whether a diagnostic with code was recorded.
func (r *Result) HasDiagnostic(code string) bool {
	for _, d := range r.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Resolver locates and validates the signing credential.
type Resolver struct {
	opts   Options
	logger utils.Logger
}

// NewResolver creates a resolver, filling in defaults. A nil logger uses the
// global logger.
func NewResolver(opts Options, logger utils.Logger) *Resolver {
	if opts.ProjectRoot == "" {
		opts.ProjectRoot = "."
	}
	if opts.PropertiesFile == "" {
		opts.PropertiesFile = DefaultPropertiesFile
	}
	if opts.StoreType == "" {
		opts.StoreType = DefaultStoreType
	}
	if opts.ConfigName == "" {
		opts.ConfigName = models.ReleaseVariant
	}
	if logger == nil {
		logger = utils.GetGlobalLogger()
	}
	return &Resolver{opts: opts, logger: logger}
}

// Options returns the effective options.
func (r *Resolver) Options() Options {
	return r.opts
}

// PropertiesPath returns the absolute path of the properties file.
func (r *Resolver) PropertiesPath() string {
	return absPath(joinUnlessAbs(r.opts.ProjectRoot, r.opts.PropertiesFile))
}

// StoreBaseDir returns the absolute directory relative storeFile values resolve against.
func (r *Resolver) StoreBaseDir() string {
	if r.opts.StoreBaseDir == "" {
		return absPath(r.opts.ProjectRoot)
	}
	return absPath(joinUnlessAbs(r.opts.ProjectRoot, r.opts.StoreBaseDir))
}

// StorePath resolves a storeFile value to an absolute path.
func (r *Resolver) StorePath(storeFile string) string {
	return absPath(joinUnlessAbs(r.StoreBaseDir(), storeFile))
}

// Load reads the properties file. A missing file yields ErrMissingPropertiesFile.
func (r *Resolver) Load() (*properties.Source, error) {
	path := r.PropertiesPath()
	name := filepath.Base(path)

	src, err := properties.LoadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("❌ %s NOT found at: %s", name, path)
			return nil, errors.NewMissingPropertiesFileError(path)
		}
		r.logger.Error("Failed to read %s: %v", path, err)
		return nil, errors.WrapError(err, errors.ErrorTypeParsing, errors.CodePropertiesParse,
			"failed to load properties file").
			WithContext("path", path)
	}

	r.logger.Info("✅ %s FOUND at: %s", name, path)
	r.logger.Debug("Loaded %d keys from %s", src.Len(), path)
	return src, nil
}

// ResolveStoreFile looks up storeFile and checks that it exists. The resolved
// path is returned even when the file is missing.
func (r *Resolver) ResolveStoreFile(src *properties.Source) (string, error) {
	raw, ok := storeFileValue(src)
	if !ok {
		r.logger.Warn("❌ %s is missing from %s", KeyStoreFile, r.opts.PropertiesFile)
		return "", errors.NewMissingKeyError(KeyStoreFile, r.opts.PropertiesFile)
	}
	r.logger.Info("%s (from %s): %s", KeyStoreFile, r.opts.PropertiesFile, raw)

	path := r.StorePath(raw)
	if _, err := os.Stat(path); err != nil {
		r.logger.Warn("❌ Keystore NOT FOUND at: %s", path)
		notFound := errors.NewStoreFileNotFoundError(path)
		if !os.IsNotExist(err) {
			notFound.Cause = err
		}
		return path, notFound
	}

	r.logger.Info("✅ Keystore FOUND at: %s", path)
	return path, nil
}

// BuildCredential assembles a credential from the source. Absent keys give
// nil fields; a nil source gives an all-nil credential.
func (r *Resolver) BuildCredential(src *properties.Source) *Credential {
	cred := &Credential{StoreType: r.opts.StoreType}
	if src == nil {
		return cred
	}

	if raw, ok := storeFileValue(src); ok {
		path := r.StorePath(raw)
		cred.StoreFile = &path
		_, err := os.Stat(path)
		cred.StoreFileExists = err == nil
	}
	cred.StorePassword = src.Lookup(KeyStorePassword)
	cred.KeyAlias = src.Lookup(KeyKeyAlias)
	cred.KeyPassword = src.Lookup(KeyKeyPassword)
	return cred
}

// Resolve runs load, store file resolution and credential assembly.
func (r *Resolver) Resolve(ctx context.Context) (*Result, error) {
	res := &Result{PropertiesPath: r.PropertiesPath()}

	src, err := r.Load()
	if err != nil {
		if !stderrors.Is(err, errors.ErrMissingPropertiesFile) {
			return res, err
		}
		res.addDiagnostic(err)
	}
	res.Source = src

	if src != nil {
		path, err := r.ResolveStoreFile(src)
		res.StoreFilePath = path
		if err != nil {
			res.addDiagnostic(err)
		}
		for _, key := range []string{KeyStorePassword, KeyKeyAlias, KeyKeyPassword} {
			if _, ok := src.Get(key); !ok {
				r.logger.Warn("❌ %s is missing from %s", key, r.opts.PropertiesFile)
				res.addDiagnostic(errors.NewMissingKeyError(key, r.opts.PropertiesFile))
			}
		}
	}

	cred := r.BuildCredential(src)
	if err := r.ExpandSecrets(ctx, cred); err != nil {
		return res, err
	}
	res.Credential = cred

	if r.opts.Strict && !cred.Valid() {
		missing := cred.Missing()
		if cred.StoreFile != nil && !cred.StoreFileExists {
			missing = append(missing, KeyStoreFile+" (not on disk)")
		}
		return res, errors.NewError(errors.ErrorTypeValidation, errors.CodeIncompleteCredential,
			"release signing credential is incomplete").
			WithContext("missing", strings.Join(missing, ", ")).
			WithContext("properties", res.PropertiesPath).
			WithSuggestion("Fix the properties file or run without --strict to build unsigned")
	}

	r.logger.Debug("Resolved credential: %s", cred)
	return res, nil
}

// ExpandSecrets replaces secret references in the credential's password and
// alias fields. It does nothing when no SecretResolver is configured.
func (r *Resolver) ExpandSecrets(ctx context.Context, cred *Credential) error {
	if r.opts.Secrets == nil || cred == nil {
		return nil
	}
	fields := []struct {
		key   string
		value **string
	}{
		{KeyStorePassword, &cred.StorePassword},
		{KeyKeyAlias, &cred.KeyAlias},
		{KeyKeyPassword, &cred.KeyPassword},
	}

	for _, f := range fields {
		if *f.value == nil {
			continue
		}
		resolved, err := r.opts.Secrets.Resolve(ctx, **f.value)
		if err != nil {
			return errors.WrapError(err, errors.ErrorTypeSecret, errors.CodeSecretResolve,
				"failed to resolve secret reference").
				WithContext("key", f.key).
				WithSuggestion("Check the reference and the credentials of its backend")
		}
		if resolved != **f.value {
			r.logger.Debug("Expanded secret reference for %s", f.key)
		}
		*f.value = &resolved
	}
	return nil
}

// storeFileValue treats a blank storeFile like an absent one.
func storeFileValue(src *properties.Source) (string, bool) {
	raw, ok := src.Get(KeyStoreFile)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

func joinUnlessAbs(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
