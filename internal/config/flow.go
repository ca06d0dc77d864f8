package config

import (
	"time"

	"github.com/cactus377/japede-cardapio/internal/domain"
)

// FlowDurations maps order type -> status -> auto-advance duration. A zero
// duration means "stop auto-advancing at this status"; the order then waits
// for manual action.
type FlowDurations map[string]map[string]time.Duration

// DurationFor returns the configured auto-advance duration for the given
// order type and status, or zero when none is configured.
func (f FlowDurations) DurationFor(orderType, status string) time.Duration {
	byStatus, ok := f[orderType]
	if !ok {
		return 0
	}
	return byStatus[status]
}

// DefaultFlowDurations mirrors the store's stock order-flow settings.
func DefaultFlowDurations() FlowDurations {
	return FlowDurations{
		domain.OrderTypeDineIn: {
			domain.OrderStatusPending:        5 * time.Minute,
			domain.OrderStatusPreparing:      10 * time.Minute,
			domain.OrderStatusReadyForPickup: 0,
		},
		domain.OrderTypeDelivery: {
			domain.OrderStatusPending:        3 * time.Minute,
			domain.OrderStatusPreparing:      15 * time.Minute,
			domain.OrderStatusReadyForPickup: 2 * time.Minute,
			domain.OrderStatusOutForDelivery: 20 * time.Minute,
		},
		domain.OrderTypeCounter: {
			domain.OrderStatusPending:        3 * time.Minute,
			domain.OrderStatusPreparing:      10 * time.Minute,
			domain.OrderStatusReadyForPickup: 0,
		},
	}
}
