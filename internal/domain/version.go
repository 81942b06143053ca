package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Version selector keywords accepted by the query operation.
const (
	VersionLatest = "latest"
	VersionAll    = "all"
)

// ParseVersionScore converts a version string like "30.0" or "0.25.1" into
// its numeric score: major*1_000_000 + minor*1_000 + patch. Missing
// components default to zero. Any component that is not a non-negative
// integer fails with ErrInvalidVersion.
func ParseVersionScore(version string) (int64, error) {
	parts := strings.Split(version, ".")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}

	nums := [3]int64{}
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
		}
		nums[i] = n
	}

	return nums[0]*1_000_000 + nums[1]*1_000 + nums[2], nil
}
