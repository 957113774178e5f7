package orders

import "github.com/portside-hq/portside-backend/pkg/enums"

// AggregateOrderStatus derives the parent order status from the full set of
// sibling group statuses. Rejection dominates: one rejected group marks the
// whole order rejected even if every other group was accepted. The rejection
// check therefore runs before the all-accepted check.
func AggregateOrderStatus(groups []enums.OrderGroupStatus) enums.OrderStatus {
	if len(groups) == 0 {
		return enums.OrderStatusPendingAgencyConfirmation
	}

	allAccepted := true
	for _, status := range groups {
		if status == enums.OrderGroupStatusRejected {
			return enums.OrderStatusRejected
		}
		switch status {
		case enums.OrderGroupStatusAccepted, enums.OrderGroupStatusInProgress, enums.OrderGroupStatusCompleted:
		default:
			allAccepted = false
		}
	}

	if allAccepted {
		return enums.OrderStatusConfirmed
	}
	return enums.OrderStatusPendingAgencyConfirmation
}
