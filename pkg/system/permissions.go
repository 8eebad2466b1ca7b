package system

import (
	"fmt"
	"os"

	"github.com/huanfeng/signcfg/pkg/utils"
)

// PermissionChecker checks access to the files holding signing secrets.
type PermissionChecker struct {
	logger utils.Logger
}

// NewPermissionChecker creates a new permission checker
func NewPermissionChecker(logger utils.Logger) *PermissionChecker {
	return &PermissionChecker{
		logger: logger,
	}
}

// PermissionCheck defines a permission check
type PermissionCheck struct {
	Path        string `json:"path"`
	RequireRead bool   `json:"require_read"`
	// Secret marks files that other users must not be able to read.
	Secret bool `json:"secret"`
}

// PermissionResult contains the outcome of CheckPermissions
type PermissionResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Passed reports whether no check failed.
func (r *PermissionResult) Passed() bool {
	return len(r.Errors) == 0
}

// CheckPermissions runs each check. Missing paths are errors; secret files
// readable by other users are warnings.
func (pc *PermissionChecker) CheckPermissions(checks []PermissionCheck) *PermissionResult {
	result := &PermissionResult{}

	for _, check := range checks {
		if pc.logger != nil {
			pc.logger.Debug("Checking permissions for: %s", check.Path)
		}

		info, err := os.Stat(check.Path)
		if err != nil {
			if os.IsNotExist(err) {
				result.Errors = append(result.Errors, fmt.Sprintf("Path does not exist: %s", check.Path))
			} else {
				result.Errors = append(result.Errors, fmt.Sprintf("Cannot access path %s: %v", check.Path, err))
			}
			continue
		}

		if check.RequireRead {
			if err := checkReadPermission(check.Path); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("No read permission for %s: %v", check.Path, err))
				continue
			}
		}

		if check.Secret && !info.IsDir() && exposedToOthers(info.Mode()) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s is readable by other users (mode %s)", check.Path, info.Mode().Perm()))
		}
	}

	return result
}

func checkReadPermission(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	return file.Close()
}
