package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/platewise/platewise/models"
)

const orderTopic = "order-placed"

// Publisher emits order-placed events for downstream consumers (kitchen
// displays, notifications). Best effort: a nil Publisher drops everything.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    orderTopic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

type orderPlacedEvent struct {
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	Total        float64   `json:"total"`
	TableNumber  string    `json:"table_number"`
	PlacedAt     time.Time `json:"placed_at"`
}

func (p *Publisher) OrderPlaced(ctx context.Context, order *models.Order) error {
	if p == nil {
		return nil
	}

	payload, err := json.Marshal(orderPlacedEvent{
		OrderID:      order.ID.String(),
		RestaurantID: order.RestaurantID.String(),
		Total:        order.Total,
		TableNumber:  order.TableNumber,
		PlacedAt:     order.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: payload,
	})
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
