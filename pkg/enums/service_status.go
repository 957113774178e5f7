package enums

import "fmt"

// ServiceStatus marks whether a catalog service can still be selected.
type ServiceStatus string

const (
	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"
)

var validServiceStatuses = []ServiceStatus{
	ServiceStatusActive,
	ServiceStatusInactive,
}

// String implements fmt.Stringer.
func (s ServiceStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceStatus.
func (s ServiceStatus) IsValid() bool {
	for _, candidate := range validServiceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceStatus converts raw input into a ServiceStatus.
func ParseServiceStatus(value string) (ServiceStatus, error) {
	for _, candidate := range validServiceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service status %q", value)
}
