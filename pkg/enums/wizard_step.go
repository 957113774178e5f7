package enums

import "fmt"

// WizardStep identifies the order wizard step a session is currently on.
type WizardStep string

const (
	WizardStepVesselPort WizardStep = "vessel_port"
	WizardStepCategories WizardStep = "categories"
	WizardStepServices   WizardStep = "services"
	WizardStepReview     WizardStep = "review"
)

var validWizardSteps = []WizardStep{
	WizardStepVesselPort,
	WizardStepCategories,
	WizardStepServices,
	WizardStepReview,
}

// String implements fmt.Stringer.
func (w WizardStep) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WizardStep.
func (w WizardStep) IsValid() bool {
	for _, candidate := range validWizardSteps {
		if candidate == w {
			return true
		}
	}
	return false
}

// Ordinal returns the position of the step in the wizard flow, starting at 0.
func (w WizardStep) Ordinal() int {
	for i, candidate := range validWizardSteps {
		if candidate == w {
			return i
		}
	}
	return -1
}

// ParseWizardStep converts raw input into a WizardStep.
func ParseWizardStep(value string) (WizardStep, error) {
	for _, candidate := range validWizardSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wizard step %q", value)
}
