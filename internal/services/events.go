package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	OrderExchange          = "order"
	OrderSettledRoutingKey = "order.settled"
)

// EventPublisher publishes serialized events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderSettledEvent is published after a settlement commits.
type OrderSettledEvent struct {
	OrderID        string          `json:"order_id"`
	UserID         string          `json:"user_id"`
	Type           string          `json:"type"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	ToPay          decimal.Decimal `json:"to_pay"`
	PointsEarned   int64           `json:"points_earned"`
	PointsRedeemed int64           `json:"points_redeemed"`
	ProductIDs     []string        `json:"product_ids"`
	CreatedAt      time.Time       `json:"created_at"`
}

// HandleOrderEvent decodes an event delivered on routingKey and logs it. Unknown routing keys
// are acknowledged and ignored; undecodable bodies return an error.
func HandleOrderEvent(log zerolog.Logger, routingKey string, body []byte) error {
	if routingKey != OrderSettledRoutingKey {
		log.Debug().Str("routing_key", routingKey).Msg("ignoring order event")
		return nil
	}
	var ev OrderSettledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("failed to decode %s event: %w", routingKey, err)
	}
	log.Info().
		Str("order_id", ev.OrderID).
		Str("user_id", ev.UserID).
		Str("type", ev.Type).
		Str("to_pay", ev.ToPay.String()).
		Strs("product_ids", ev.ProductIDs).
		Msg("order settled event received")
	return nil
}
