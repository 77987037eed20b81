package kafka

import (
	"context"
	"fmt"
	"log"

	"monepiceriz/internal/metric"

	"github.com/IBM/sarama"
)

// MessageProcessor valide et enregistre un message catalogue.
type MessageProcessor func(context.Context, []byte) error

type CatalogConsumer struct {
	consumer  sarama.Consumer
	topic     string
	processor MessageProcessor
}

func NewCatalogConsumer(brokers []string, topic string, processor MessageProcessor) (*CatalogConsumer, error) {
	conf := sarama.NewConfig()
	// on ne lit que les nouveaux messages
	conf.Consumer.Offsets.Initial = sarama.OffsetNewest

	consumer, err := sarama.NewConsumer(brokers, conf)
	if err != nil {
		return nil, fmt.Errorf("création du consumer: %w", err)
	}
	return &CatalogConsumer{consumer: consumer, topic: topic, processor: processor}, nil
}

// Start consomme la partition du topic catalogue jusqu'à l'annulation
// du contexte.
func (c *CatalogConsumer) Start(ctx context.Context) error {
	partitionConsumer, err := c.consumer.ConsumePartition(c.topic, 0, sarama.OffsetNewest)
	if err != nil {
		return fmt.Errorf("ouverture de la partition: %w", err)
	}
	defer func() {
		if err := partitionConsumer.Close(); err != nil {
			log.Printf("fermeture du partitionConsumer: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Println("Arrêt du consumer Kafka...")
			return ctx.Err()
		case message := <-partitionConsumer.Messages():
			if err := c.processor(ctx, message.Value); err != nil {
				log.Printf("Message catalogue rejeté: %v", err)
				metric.KafkaMessagesTotal.WithLabelValues("error").Inc()
			} else {
				metric.KafkaMessagesTotal.WithLabelValues("success").Inc()
			}
		}
	}
}

func (c *CatalogConsumer) Close() error {
	return c.consumer.Close()
}
