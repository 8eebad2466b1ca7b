package models

// Config represents the application configuration
type Config struct {
	Project ProjectConfig `mapstructure:"project" json:"project" yaml:"project"`
	Signing SigningPolicy `mapstructure:"signing" json:"signing" yaml:"signing"`
	Android AndroidConfig `mapstructure:"android" json:"android" yaml:"android"`
	Release ReleaseConfig `mapstructure:"release" json:"release" yaml:"release"`
}

// ProjectConfig locates the properties file and the keystore
type ProjectConfig struct {
	Root           string `mapstructure:"root" json:"root" yaml:"root"`
	PropertiesFile string `mapstructure:"properties_file" json:"properties_file" yaml:"properties_file"`
	StoreBaseDir   string `mapstructure:"store_base_dir" json:"store_base_dir" yaml:"store_base_dir"` // "" = project root
}

// SigningPolicy controls how the credential is resolved
type SigningPolicy struct {
	ConfigName     string `mapstructure:"config_name" json:"config_name" yaml:"config_name"`
	StoreType      string `mapstructure:"store_type" json:"store_type" yaml:"store_type"`
	Strict         bool   `mapstructure:"strict" json:"strict" yaml:"strict"`
	ResolveSecrets bool   `mapstructure:"resolve_secrets" json:"resolve_secrets" yaml:"resolve_secrets"`
}

// AndroidConfig holds values supplied by the surrounding framework. They are
// passed through as opaque strings.
type AndroidConfig struct {
	Namespace     string `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
	ApplicationID string `mapstructure:"application_id" json:"application_id" yaml:"application_id"`
	NdkVersion    string `mapstructure:"ndk_version" json:"ndk_version" yaml:"ndk_version"`
	CompileSDK    string `mapstructure:"compile_sdk" json:"compile_sdk" yaml:"compile_sdk"`
	MinSDK        string `mapstructure:"min_sdk" json:"min_sdk" yaml:"min_sdk"`
	TargetSDK     string `mapstructure:"target_sdk" json:"target_sdk" yaml:"target_sdk"`
	VersionCode   string `mapstructure:"version_code" json:"version_code" yaml:"version_code"`
	VersionName   string `mapstructure:"version_name" json:"version_name" yaml:"version_name"`
	JavaVersion   string `mapstructure:"java_version" json:"java_version" yaml:"java_version"`
}

// ReleaseConfig contains flags of the release build variant
type ReleaseConfig struct {
	MinifyEnabled   bool `mapstructure:"minify_enabled" json:"minify_enabled" yaml:"minify_enabled"`
	ShrinkResources bool `mapstructure:"shrink_resources" json:"shrink_resources" yaml:"shrink_resources"`
}
