package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gremlinx/exchange-service/internal/config"

	"github.com/segmentio/kafka-go"
)

// OrderCreatedMessage - событие о созданном заказе. Консьюмер по нему
// запускает обработку жизненного цикла.
type OrderCreatedMessage struct {
	OrderID string `json:"order_id"`
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(cfg config.Kafka) *kafkaProducer {
	return &kafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
		topic: cfg.Topic,
	}
}

func (p *kafkaProducer) Enqueue(ctx context.Context, orderID string) error {
	value, err := json.Marshal(OrderCreatedMessage{OrderID: orderID})
	if err != nil {
		return fmt.Errorf("failed to marshal order message: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(orderID),
		Value: value,
	})
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}
