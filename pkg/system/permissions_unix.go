//go:build !windows

package system

import "os"

// exposedToOthers reports whether group or other users can read the file.
func exposedToOthers(mode os.FileMode) bool {
	return mode.Perm()&0o044 != 0
}
