package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/huanfeng/signcfg/pkg/models"
)

// DefaultFileName is the configuration file written by 'signcfg init'.
const DefaultFileName = "signcfg.yaml"

// EnvPrefix prefixes every environment override, e.g. SIGNCFG_SIGNING_STRICT.
const EnvPrefix = "SIGNCFG"

var defaultConfig = models.Config{
	Project: models.ProjectConfig{
		Root:           ".",
		PropertiesFile: "key.properties",
		StoreBaseDir:   "",
	},
	Signing: models.SigningPolicy{
		ConfigName:     "release",
		StoreType:      "pkcs12",
		Strict:         false,
		ResolveSecrets: true,
	},
	Android: models.AndroidConfig{
		JavaVersion: "11",
	},
	Release: models.ReleaseConfig{
		MinifyEnabled:   false,
		ShrinkResources: false,
	},
}

// Default returns a copy of the built-in configuration.
func Default() models.Config {
	return defaultConfig
}

// Load loads configuration from file and environment. With an empty
// configPath the file is searched in the current directory and in
// ~/.config/signcfg; not finding one is not an error.
func Load(configPath string) (*models.Config, string, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("project.root", defaultConfig.Project.Root)
	v.SetDefault("project.properties_file", defaultConfig.Project.PropertiesFile)
	v.SetDefault("project.store_base_dir", defaultConfig.Project.StoreBaseDir)
	v.SetDefault("signing.config_name", defaultConfig.Signing.ConfigName)
	v.SetDefault("signing.store_type", defaultConfig.Signing.StoreType)
	v.SetDefault("signing.strict", defaultConfig.Signing.Strict)
	v.SetDefault("signing.resolve_secrets", defaultConfig.Signing.ResolveSecrets)
	for _, key := range []string{"namespace", "application_id", "ndk_version", "compile_sdk",
		"min_sdk", "target_sdk", "version_code", "version_name"} {
		v.SetDefault("android."+key, "")
	}
	v.SetDefault("android.java_version", defaultConfig.Android.JavaVersion)
	v.SetDefault("release.minify_enabled", defaultConfig.Release.MinifyEnabled)
	v.SetDefault("release.shrink_resources", defaultConfig.Release.ShrinkResources)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("signcfg")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "signcfg"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, "", fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, v.ConfigFileUsed(), nil
}

// SaveConfig writes cfg as yaml.
func SaveConfig(cfg *models.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// SaveTemplate saves a commented configuration template
func SaveTemplate(path string) error {
	return os.WriteFile(path, []byte(Template), 0644)
}

// Template is the annotated default configuration.
const Template = `# signcfg configuration

project:
  # Directory holding key.properties (the Flutter android/ directory)
  root: "."

  # Properties file, relative to root
  properties_file: "key.properties"

  # Directory a relative storeFile is resolved against, relative to root.
  # Empty means root. Use "app" to match Gradle's module-relative file().
  store_base_dir: ""

signing:
  # Name of the signing config enabled on the release build type
  config_name: "release"

  # Keystore type written into the signing config
  store_type: "pkcs12"

  # Fail when any signing field is missing or the keystore does not exist
  strict: false

  # Expand op://, keyring: and env: references in the properties file
  resolve_secrets: true

android:
  # Values below are passed through. In Gradle output, integers and references
  # such as flutter.versionName stay Kotlin expressions; other values are quoted.
  namespace: ""
  application_id: ""
  ndk_version: ""
  compile_sdk: ""
  min_sdk: ""
  target_sdk: ""
  version_code: ""
  version_name: ""
  java_version: "11"

release:
  minify_enabled: false
  shrink_resources: false
`

// PropertiesExample is written next to the configuration by 'signcfg init'.
const PropertiesExample = `# Copy to key.properties and keep it out of version control.
storePassword=env:ANDROID_STORE_PASSWORD
keyPassword=env:ANDROID_KEY_PASSWORD
keyAlias=upload
storeFile=upload-keystore.jks
`
