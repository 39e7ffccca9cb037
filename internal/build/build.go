// Package build holds build-time information.
package build

// These default to development values and are overwritten by linker flags,
// e.g. -ldflags "-X github.com/jonpalmisc/limoncello/internal/build.Version=v1.2.0".
var (
	// Version is the application version.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
