package models

import "sort"

// ReleaseVariant is the build variant that carries the signing config.
const ReleaseVariant = "release"

// RedactedValue replaces secrets in rendered output.
const RedactedValue = "********"

// SigningConfig is the signing record consumed by the packaging tool.
// Nil fields were absent from the properties file.
type SigningConfig struct {
	Name          string  `json:"name" yaml:"name" toml:"name"`
	StoreFile     *string `json:"store_file" yaml:"store_file" toml:"store_file,omitempty"`
	StorePassword *string `json:"store_password" yaml:"store_password" toml:"store_password,omitempty"`
	KeyAlias      *string `json:"key_alias" yaml:"key_alias" toml:"key_alias,omitempty"`
	KeyPassword   *string `json:"key_password" yaml:"key_password" toml:"key_password,omitempty"`
	StoreType     string  `json:"store_type" yaml:"store_type" toml:"store_type"`
}

// BuildType is a named build variant.
type BuildType struct {
	Name            string `json:"name" yaml:"name" toml:"name"`
	SigningConfig   string `json:"signing_config,omitempty" yaml:"signing_config,omitempty" toml:"signing_config,omitempty"`
	MinifyEnabled   bool   `json:"minify_enabled" yaml:"minify_enabled" toml:"minify_enabled"`
	ShrinkResources bool   `json:"shrink_resources" yaml:"shrink_resources" toml:"shrink_resources"`
}

// DefaultConfig mirrors the defaultConfig block of the app module.
type DefaultConfig struct {
	ApplicationID string `json:"application_id" yaml:"application_id" toml:"application_id"`
	CompileSDK    string `json:"compile_sdk" yaml:"compile_sdk" toml:"compile_sdk"`
	MinSDK        string `json:"min_sdk" yaml:"min_sdk" toml:"min_sdk"`
	TargetSDK     string `json:"target_sdk" yaml:"target_sdk" toml:"target_sdk"`
	VersionCode   string `json:"version_code" yaml:"version_code" toml:"version_code"`
	VersionName   string `json:"version_name" yaml:"version_name" toml:"version_name"`
}

// CompileOptions holds the Java language level.
type CompileOptions struct {
	SourceCompatibility string `json:"source_compatibility" yaml:"source_compatibility" toml:"source_compatibility"`
	TargetCompatibility string `json:"target_compatibility" yaml:"target_compatibility" toml:"target_compatibility"`
	JvmTarget           string `json:"jvm_target" yaml:"jvm_target" toml:"jvm_target"`
}

// BuildConfiguration is the record handed to the packaging tool.
type BuildConfiguration struct {
	Namespace      string                    `json:"namespace" yaml:"namespace" toml:"namespace"`
	NdkVersion     string                    `json:"ndk_version" yaml:"ndk_version" toml:"ndk_version"`
	CompileOptions CompileOptions            `json:"compile_options" yaml:"compile_options" toml:"compile_options"`
	DefaultConfig  DefaultConfig             `json:"default_config" yaml:"default_config" toml:"default_config"`
	SigningConfigs map[string]*SigningConfig `json:"signing_configs" yaml:"signing_configs" toml:"signing_configs"`
	BuildTypes     map[string]*BuildType     `json:"build_types" yaml:"build_types" toml:"build_types"`
}

// NewBuildConfiguration builds the record from configuration. The release
// build type exists from the start; it is linked to a signing config by
// InjectSigning.
func NewBuildConfiguration(cfg *Config) *BuildConfiguration {
	if cfg == nil {
		cfg = &Config{}
	}
	android := cfg.Android
	javaVersion := android.JavaVersion
	if javaVersion == "" {
		javaVersion = "11"
	}

	return &BuildConfiguration{
		Namespace:  android.Namespace,
		NdkVersion: android.NdkVersion,
		CompileOptions: CompileOptions{
			SourceCompatibility: javaVersion,
			TargetCompatibility: javaVersion,
			JvmTarget:           javaVersion,
		},
		DefaultConfig: DefaultConfig{
			ApplicationID: android.ApplicationID,
			CompileSDK:    android.CompileSDK,
			MinSDK:        android.MinSDK,
			TargetSDK:     android.TargetSDK,
			VersionCode:   android.VersionCode,
			VersionName:   android.VersionName,
		},
		SigningConfigs: map[string]*SigningConfig{},
		BuildTypes: map[string]*BuildType{
			ReleaseVariant: {
				Name:            ReleaseVariant,
				MinifyEnabled:   cfg.Release.MinifyEnabled,
				ShrinkResources: cfg.Release.ShrinkResources,
			},
		},
	}
}

// InjectSigning registers sc and enables it on the release build type.
func (b *BuildConfiguration) InjectSigning(sc *SigningConfig) {
	if sc == nil {
		return
	}
	if b.SigningConfigs == nil {
		b.SigningConfigs = map[string]*SigningConfig{}
	}
	b.SigningConfigs[sc.Name] = sc

	release, ok := b.BuildTypes[ReleaseVariant]
	if !ok {
		if b.BuildTypes == nil {
			b.BuildTypes = map[string]*BuildType{}
		}
		release = &BuildType{Name: ReleaseVariant}
		b.BuildTypes[ReleaseVariant] = release
	}
	release.SigningConfig = sc.Name
}

// SigningConfigNames returns the signing config names in sorted order.
func (b *BuildConfiguration) SigningConfigNames() []string {
	names := make([]string, 0, len(b.SigningConfigs))
	for name := range b.SigningConfigs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildTypeNames returns the build type names in sorted order.
func (b *BuildConfiguration) BuildTypeNames() []string {
	names := make([]string, 0, len(b.BuildTypes))
	for name := range b.BuildTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Redacted returns a deep copy with every password replaced by RedactedValue.
func (b *BuildConfiguration) Redacted() *BuildConfiguration {
	out := *b
	out.SigningConfigs = make(map[string]*SigningConfig, len(b.SigningConfigs))
	for name, sc := range b.SigningConfigs {
		out.SigningConfigs[name] = sc.Redacted()
	}
	out.BuildTypes = make(map[string]*BuildType, len(b.BuildTypes))
	for name, bt := range b.BuildTypes {
		copied := *bt
		out.BuildTypes[name] = &copied
	}
	return &out
}

// Redacted returns a copy of sc with the passwords masked.
func (sc *SigningConfig) Redacted() *SigningConfig {
	if sc == nil {
		return nil
	}
	out := *sc
	out.StoreFile = copyString(sc.StoreFile)
	out.KeyAlias = copyString(sc.KeyAlias)
	out.StorePassword = mask(sc.StorePassword)
	out.KeyPassword = mask(sc.KeyPassword)
	return &out
}

func mask(s *string) *string {
	if s == nil {
		return nil
	}
	v := RedactedValue
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
