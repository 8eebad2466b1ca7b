package system

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/huanfeng/signcfg/pkg/utils"
)

// ConfigManager validates signcfg configuration files
type ConfigManager struct {
	logger utils.Logger
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(logger utils.Logger) *ConfigManager {
	return &ConfigManager{
		logger: logger,
	}
}

// ConfigValidationResult contains the result of configuration validation
type ConfigValidationResult struct {
	Valid       bool                   `json:"valid"`
	Errors      []string               `json:"errors"`
	Warnings    []string               `json:"warnings"`
	Suggestions []string               `json:"suggestions"`
	Details     map[string]interface{} `json:"details"`
	ConfigPath  string                 `json:"config_path"`
}

func (r *ConfigValidationResult) fail(msg string, suggestions ...string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
	r.Suggestions = append(r.Suggestions, suggestions...)
}

var knownSections = map[string][]string{
	"project": {"root", "properties_file", "store_base_dir"},
	"signing": {"config_name", "store_type", "strict", "resolve_secrets"},
	"android": {"namespace", "application_id", "ndk_version", "compile_sdk",
		"min_sdk", "target_sdk", "version_code", "version_name", "java_version"},
	"release": {"minify_enabled", "shrink_resources"},
}

var knownStoreTypes = map[string]bool{"pkcs12": true, "jks": true}

// ValidateConfig validates a configuration file
func (cm *ConfigManager) ValidateConfig(configPath string) *ConfigValidationResult {
	result := &ConfigValidationResult{
		Valid:       true,
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
		Details:     make(map[string]interface{}),
		ConfigPath:  configPath,
	}

	if cm.logger != nil {
		cm.logger.Debug("Validating configuration file: %s", configPath)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.fail("Configuration file does not exist", "Run 'signcfg init' to create a configuration file")
		} else {
			result.fail(fmt.Sprintf("Cannot access configuration file: %v", err), "Check file permissions")
		}
		return result
	}
	result.Details["file_size"] = info.Size()
	result.Details["modified_time"] = info.ModTime().Format("2006-01-02 15:04:05")

	data, err := os.ReadFile(configPath)
	if err != nil {
		result.fail(fmt.Sprintf("Cannot read configuration file: %v", err))
		return result
	}

	var config map[string]interface{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		result.fail(fmt.Sprintf("Invalid YAML syntax: %v", err),
			"Ensure proper indentation and structure")
		return result
	}
	result.Details["config_keys"] = len(config)

	cm.validateStructure(config, result)
	cm.validateSigning(config, result)

	return result
}

func (cm *ConfigManager) validateStructure(config map[string]interface{}, result *ConfigValidationResult) {
	sections := make([]string, 0, len(config))
	for name := range config {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for _, name := range sections {
		keys, known := knownSections[name]
		if !known {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown section: %s", name))
			continue
		}

		section, ok := config[name].(map[string]interface{})
		if !ok {
			if config[name] != nil {
				result.fail(fmt.Sprintf("%s section must be a map", name))
			}
			continue
		}

		allowed := make(map[string]bool, len(keys))
		for _, k := range keys {
			allowed[k] = true
		}
		fields := make([]string, 0, len(section))
		for k := range section {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		for _, k := range fields {
			if !allowed[k] {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown setting: %s.%s", name, k))
			}
		}
	}
}

func (cm *ConfigManager) validateSigning(config map[string]interface{}, result *ConfigValidationResult) {
	signing, ok := config["signing"].(map[string]interface{})
	if !ok {
		return
	}

	if st, exists := signing["store_type"]; exists {
		s, isString := st.(string)
		if !isString || !knownStoreTypes[s] {
			result.fail(fmt.Sprintf("Unsupported store_type: %v", st), "Use pkcs12 or jks")
		}
	}

	for _, key := range []string{"strict", "resolve_secrets"} {
		if v, exists := signing[key]; exists {
			if _, isBool := v.(bool); !isBool {
				result.fail(fmt.Sprintf("signing.%s must be true or false", key))
			}
		}
	}

	if strict, _ := signing["strict"].(bool); !strict {
		result.Warnings = append(result.Warnings, "signing.strict is off: release builds continue without a complete credential")
		result.Suggestions = append(result.Suggestions, "Set signing.strict: true on CI to fail fast")
	}
}
