package enums

import "fmt"

// OrderGroupStatus tracks the lifecycle of a per-agency order group.
//
// pending -> accepted -> in_progress -> completed
// pending -> rejected
//
// rejected and completed are terminal.
type OrderGroupStatus string

const (
	OrderGroupStatusPending    OrderGroupStatus = "pending"
	OrderGroupStatusAccepted   OrderGroupStatus = "accepted"
	OrderGroupStatusRejected   OrderGroupStatus = "rejected"
	OrderGroupStatusInProgress OrderGroupStatus = "in_progress"
	OrderGroupStatusCompleted  OrderGroupStatus = "completed"
)

var validOrderGroupStatuses = []OrderGroupStatus{
	OrderGroupStatusPending,
	OrderGroupStatusAccepted,
	OrderGroupStatusRejected,
	OrderGroupStatusInProgress,
	OrderGroupStatusCompleted,
}

// String implements fmt.Stringer.
func (o OrderGroupStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderGroupStatus.
func (o OrderGroupStatus) IsValid() bool {
	for _, candidate := range validOrderGroupStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (o OrderGroupStatus) IsTerminal() bool {
	return o == OrderGroupStatusRejected || o == OrderGroupStatusCompleted
}

// CanTransitionTo reports whether the group state machine allows moving from
// the current status to target.
func (o OrderGroupStatus) CanTransitionTo(target OrderGroupStatus) bool {
	switch o {
	case OrderGroupStatusPending:
		return target == OrderGroupStatusAccepted || target == OrderGroupStatusRejected
	case OrderGroupStatusAccepted:
		return target == OrderGroupStatusInProgress
	case OrderGroupStatusInProgress:
		return target == OrderGroupStatusCompleted
	default:
		return false
	}
}

// ParseOrderGroupStatus converts raw input into an OrderGroupStatus.
func ParseOrderGroupStatus(value string) (OrderGroupStatus, error) {
	for _, candidate := range validOrderGroupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order group status %q", value)
}
