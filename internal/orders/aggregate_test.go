package orders

import (
	"testing"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

func TestAggregateOrderStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		groups []enums.OrderGroupStatus
		want   enums.OrderStatus
	}{
		{
			name:   "no groups stays pending",
			groups: nil,
			want:   enums.OrderStatusPendingAgencyConfirmation,
		},
		{
			name:   "all pending",
			groups: []enums.OrderGroupStatus{enums.OrderGroupStatusPending, enums.OrderGroupStatusPending},
			want:   enums.OrderStatusPendingAgencyConfirmation,
		},
		{
			name:   "mixed accepted and pending",
			groups: []enums.OrderGroupStatus{enums.OrderGroupStatusAccepted, enums.OrderGroupStatusPending},
			want:   enums.OrderStatusPendingAgencyConfirmation,
		},
		{
			name:   "all accepted",
			groups: []enums.OrderGroupStatus{enums.OrderGroupStatusAccepted, enums.OrderGroupStatusAccepted},
			want:   enums.OrderStatusConfirmed,
		},
		{
			name:   "accepted and in progress",
			groups: []enums.OrderGroupStatus{enums.OrderGroupStatusAccepted, enums.OrderGroupStatusInProgress},
			want:   enums.OrderStatusConfirmed,
		},
		{
			name:   "all completed",
			groups: []enums.OrderGroupStatus{enums.OrderGroupStatusCompleted, enums.OrderGroupStatusCompleted},
			want:   enums.OrderStatusConfirmed,
		},
		{
			name:   "rejection dominates accepted siblings",
			groups: []enums.OrderGroupStatus{enums.OrderGroupStatusAccepted, enums.OrderGroupStatusRejected},
			want:   enums.OrderStatusRejected,
		},
		{
			name:   "rejection dominates pending siblings",
			groups: []enums.OrderGroupStatus{enums.OrderGroupStatusRejected, enums.OrderGroupStatusPending},
			want:   enums.OrderStatusRejected,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := AggregateOrderStatus(tc.groups); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
