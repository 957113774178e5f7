package enums

import "fmt"

// OutboxEventType names the domain events the platform emits through the
// transactional outbox.
type OutboxEventType string

const (
	EventOrderCreated        OutboxEventType = "order.created"
	EventOrderStatusChanged  OutboxEventType = "order.status_changed"
	EventOrderGroupDecided   OutboxEventType = "order_group.decided"
	EventOrderGroupStarted   OutboxEventType = "order_group.started"
	EventOrderGroupCompleted OutboxEventType = "order_group.completed"
	EventWizardSessionSwept  OutboxEventType = "wizard_session.swept"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderCreated,
	EventOrderStatusChanged,
	EventOrderGroupDecided,
	EventOrderGroupStarted,
	EventOrderGroupCompleted,
	EventWizardSessionSwept,
}

// String implements fmt.Stringer.
func (o OutboxEventType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OutboxEventType.
func (o OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder         OutboxAggregateType = "order"
	AggregateOrderGroup    OutboxAggregateType = "order_group"
	AggregateWizardSession OutboxAggregateType = "wizard_session"
)

var validOutboxAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateOrderGroup,
	AggregateWizardSession,
}

// String implements fmt.Stringer.
func (o OutboxAggregateType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OutboxAggregateType.
func (o OutboxAggregateType) IsValid() bool {
	for _, candidate := range validOutboxAggregateTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into an OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validOutboxAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox aggregate type %q", value)
}
