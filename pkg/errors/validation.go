package errors

import (
	"regexp"
	"strconv"
)

// versionPattern matches the numeric build identifiers used by artifact
// versions (e.g. "6683"). Leading zeros are accepted.
var versionPattern = regexp.MustCompile(`^\d{1,10}$`)

// ValidateVersion validates a version query parameter.
// Versions are free-text numeric build numbers; anything else is rejected
// before it can reach upstream lookups.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidVersion, "version cannot be empty")
	}
	if !versionPattern.MatchString(version) {
		return New(ErrCodeInvalidVersion, "version must be a numeric build number: %q", version)
	}
	return nil
}

// ValidatePlatform validates a platform query parameter.
// An empty platform is valid and means "all platforms".
func ValidatePlatform(platform string) error {
	switch platform {
	case "", "windows", "linux":
		return nil
	}
	return New(ErrCodeInvalidPlatform, "platform must be windows or linux: %q", platform)
}

// ValidateStatus validates a support-status filter parameter.
// An empty status is valid and means "no status filter".
func ValidateStatus(status string) error {
	switch status {
	case "", "recommended", "latest", "active", "deprecated", "eol":
		return nil
	}
	return New(ErrCodeInvalidStatus, "unknown support status: %q", status)
}

// ValidateSort validates sortBy/sortOrder query parameters.
func ValidateSort(sortBy, sortOrder string) error {
	switch sortBy {
	case "version", "date":
	default:
		return New(ErrCodeInvalidInput, "sortBy must be version or date: %q", sortBy)
	}
	switch sortOrder {
	case "asc", "desc":
	default:
		return New(ErrCodeInvalidInput, "sortOrder must be asc or desc: %q", sortOrder)
	}
	return nil
}

// ParseBoundedInt parses a non-negative integer query parameter, returning
// def when raw is empty. Values above maxVal are clamped rather than
// rejected, matching the API's clamp-not-error pagination contract.
func ParseBoundedInt(raw string, def, maxVal int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "not a number: %q", raw)
	}
	if n < 0 {
		return 0, New(ErrCodeInvalidInput, "must be non-negative: %d", n)
	}
	if maxVal > 0 && n > maxVal {
		return maxVal, nil
	}
	return n, nil
}
