package version

import (
	"fmt"
)

// Version is the service version, overridable at build time with
// -ldflags "-X github.com/hrygo/converse/internal/version.Version=...".
var Version = "0.1.0"

// DevVersion is the suffix attached to non-prod builds.
var DevVersion = "dev"

func GetCurrentVersion(mode string) string {
	if mode == "prod" {
		return Version
	}
	return fmt.Sprintf("%s-%s", Version, DevVersion)
}
