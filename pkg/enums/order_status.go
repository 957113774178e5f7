package enums

import "fmt"

// OrderStatus is the aggregate status of a parent order. It is derived from
// the statuses of the order's groups and never written directly by handlers.
type OrderStatus string

const (
	OrderStatusDraft                     OrderStatus = "draft"
	OrderStatusPendingAgencyConfirmation OrderStatus = "pending_agency_confirmation"
	OrderStatusConfirmed                 OrderStatus = "confirmed"
	OrderStatusPartiallyAccepted         OrderStatus = "partially_accepted"
	OrderStatusRejected                  OrderStatus = "rejected"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusPendingAgencyConfirmation,
	OrderStatusConfirmed,
	OrderStatusPartiallyAccepted,
	OrderStatusRejected,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
