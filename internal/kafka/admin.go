package kafka

import (
	"fmt"
	"log"

	"github.com/IBM/sarama"
)

func EnsureTopicExists(brokers []string, topic string) error {
	config := sarama.NewConfig()
	config.Version = sarama.V2_1_0_0

	// client d'administration du cluster
	admin, err := sarama.NewClusterAdmin(brokers, config)
	if err != nil {
		return fmt.Errorf("création du client admin Kafka: %w", err)
	}
	defer func() {
		if err := admin.Close(); err != nil {
			log.Printf("fermeture du client admin Kafka: %v", err)
		}
	}()

	// 1. liste des topics existants
	topics, err := admin.ListTopics()
	if err != nil {
		return fmt.Errorf("liste des topics: %w", err)
	}
	// 2. le topic existe : rien à faire
	if _, exists := topics[topic]; exists {
		log.Printf("Kafka: le topic '%s' existe déjà", topic)
		return nil
	}
	// 3. sinon on le crée
	topicDetails := &sarama.TopicDetail{
		NumPartitions:     1,
		ReplicationFactor: 1,
		ConfigEntries: map[string]*string{
			"retention.ms": strPtr("604800000"),
		},
	}

	if err = admin.CreateTopic(topic, topicDetails, false); err != nil {
		return fmt.Errorf("création du topic impossible: %w", err)
	}

	log.Printf("Kafka: topic '%s' créé", topic)
	return nil
}

func strPtr(s string) *string {
	return &s
}
