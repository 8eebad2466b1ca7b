//go:build windows

package system

import "os"

// Windows ACLs are not reflected in the mode bits, so nothing is reported.
func exposedToOthers(os.FileMode) bool {
	return false
}
