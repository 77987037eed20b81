package kafka

import (
	"encoding/json"
	"fmt"
	"log"

	"monepiceriz/internal/models"

	"github.com/IBM/sarama"
	"github.com/brianvoe/gofakeit"
)

// CatalogProducer publie des produits de démonstration sur le topic
// catalogue (amorçage d'un environnement vide).
type CatalogProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(brokers []string, topic string) (*CatalogProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll // accusé de tous les brokers

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("création du producer impossible: %w", err)
	}
	return &CatalogProducer{
		producer: producer,
		topic:    topic,
	}, nil
}

// Send publie un produit de démonstration.
func (pr *CatalogProducer) Send() error {
	// 1. Génération des données
	product := generateFakeProduct()
	// 2. Sérialisation
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("sérialisation du produit: %w", err)
	}
	// 3. Construction du message
	message := &sarama.ProducerMessage{
		Topic: pr.topic,
		Value: sarama.ByteEncoder(data),
	}
	// 4. Envoi
	partition, offset, err := pr.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("envoi du message catalogue: %w", err)
	}
	log.Printf("Produit de démonstration publié: %s (partition %d, offset %d)", product.ID, partition, offset)
	return nil
}

// Panier type d'une épicerie d'Abidjan, pour des données de démo crédibles.
var sampleNames = []string{
	"Riz parfumé 5kg",
	"Huile de palme 1L",
	"Attiéké 500g",
	"Tomates pelées 400g",
	"Lait en poudre 400g",
	"Spaghetti 500g",
	"Sucre en morceaux 1kg",
	"Sardines à l'huile 125g",
	"Farine de blé 1kg",
	"Jus d'ananas 1L",
}

func generateFakeProduct() models.Product {
	price := gofakeit.Number(500, 15000)
	p := models.Product{
		ID:       gofakeit.UUID(),
		Name:     sampleNames[gofakeit.Number(0, len(sampleNames)-1)],
		Category: "épicerie",
		Price:    price,
		InStock:  true,
	}
	// un produit sur quatre environ part en promotion
	if gofakeit.Number(0, 3) == 0 {
		promo := price * 80 / 100
		p.PromoPrice = &promo
		p.IsPromo = true
	}
	return p
}

func (pr *CatalogProducer) Close() error {
	return pr.producer.Close()
}
