package extension

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinSupportedVersion is the oldest extension release whose bridge API this
// client speaks.
const MinSupportedVersion = "0.4.0"

var minSupported = semver.MustParse(MinSupportedVersion)

// CheckVersion reports whether the extension version reported by the bridge
// is supported. A blank version is treated as unknown and accepted.
func CheckVersion(version string) (bool, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return true, nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("invalid extension version %q: %w", version, err)
	}
	return !v.LessThan(minSupported), nil
}
