package enums

import "fmt"

// WizardSessionStatus tracks whether a wizard session is still a draft or
// already converted into an order.
type WizardSessionStatus string

const (
	WizardSessionStatusDraft     WizardSessionStatus = "draft"
	WizardSessionStatusCompleted WizardSessionStatus = "completed"
)

var validWizardSessionStatuses = []WizardSessionStatus{
	WizardSessionStatusDraft,
	WizardSessionStatusCompleted,
}

// String implements fmt.Stringer.
func (w WizardSessionStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WizardSessionStatus.
func (w WizardSessionStatus) IsValid() bool {
	for _, candidate := range validWizardSessionStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWizardSessionStatus converts raw input into a WizardSessionStatus.
func ParseWizardSessionStatus(value string) (WizardSessionStatus, error) {
	for _, candidate := range validWizardSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wizard session status %q", value)
}
